package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/desertthunder/moviex/internal/shared"
)

// ByteArray is raw binary data that travels as a JSON array of numbers (0..255) rather than base64.
type ByteArray []byte

// MarshalJSON encodes b as a numeric array. A nil slice encodes as [].
func (b ByteArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(b)*4 + 2)
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a numeric array, rejecting values outside 0..255.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: byte %d at index %d", shared.ErrMalformedResponse, v, i)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}
