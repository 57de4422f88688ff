package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/desertthunder/moviex/internal/shared"
)

// Info describes decoded image dimensions.
type Info struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Describe reads the image header without decoding pixels.
func Describe(img DisplayableImage) (Info, error) {
	if img.Empty() {
		return Info{}, shared.ErrMissingImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Preview decodes data and returns a PNG no larger than maxW x maxH, keeping aspect ratio.
// Images already within bounds are re-encoded at their original size.
func Preview(data []byte, maxW, maxH int) (DisplayableImage, error) {
	if len(data) == 0 {
		return DisplayableImage{}, shared.ErrMissingImage
	}
	if maxW <= 0 || maxH <= 0 {
		return DisplayableImage{}, fmt.Errorf("%w: preview bounds %dx%d", shared.ErrInvalidArgument, maxW, maxH)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return DisplayableImage{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	bounds := src.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), maxW, maxH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return DisplayableImage{}, fmt.Errorf("failed to encode preview: %w", err)
	}
	return DisplayableImage{MediaType: "image/png", Data: buf.Bytes()}, nil
}

// fit scales srcW x srcH down into maxW x maxH, never upscaling and never returning a zero side.
func fit(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := srcW, srcH
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return max(w, 1), max(h, 1)
}
