package thumbnail

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/moviex/internal/shared"
)

// DefaultMediaType tags payloads whose type cannot be sniffed.
const DefaultMediaType = "image/png"

// DisplayableImage is image bytes tagged with a media type. The zero value means "no image".
type DisplayableImage struct {
	MediaType string
	Data      []byte
}

// NewDisplayableImage tags data with its sniffed media type, falling back to [DefaultMediaType].
func NewDisplayableImage(data []byte) DisplayableImage {
	if len(data) == 0 {
		return DisplayableImage{}
	}
	return DisplayableImage{MediaType: DetectMediaType(data), Data: data}
}

// Empty reports whether there is nothing to display.
func (d DisplayableImage) Empty() bool {
	return len(d.Data) == 0
}

// URI encodes the image as a base64 data URI, or "" when empty.
func (d DisplayableImage) URI() string {
	if d.Empty() {
		return ""
	}
	mt := d.MediaType
	if mt == "" {
		mt = DefaultMediaType
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// ParseDataURI decodes a base64 data URI produced by [DisplayableImage.URI]. "" parses as the empty image.
func ParseDataURI(s string) (DisplayableImage, error) {
	if s == "" {
		return DisplayableImage{}, nil
	}

	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DisplayableImage{}, fmt.Errorf("%w: not a data URI", shared.ErrInvalidInput)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DisplayableImage{}, fmt.Errorf("%w: data URI has no payload", shared.ErrInvalidInput)
	}
	mt, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return DisplayableImage{}, fmt.Errorf("%w: data URI is not base64", shared.ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DisplayableImage{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return DisplayableImage{MediaType: mt, Data: data}, nil
}

// DetectMediaType sniffs data and returns an image/* type, or [DefaultMediaType].
func DetectMediaType(data []byte) string {
	ct := http.DetectContentType(data)
	if IsImage(ct) {
		return ct
	}
	return DefaultMediaType
}

// IsImage checks if a mime type is an image.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
