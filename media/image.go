// Package media validates user-supplied images before they are attached to a
// conversation turn or sent to the model.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned when no image bytes were supplied.
var ErrEmptyImage = errors.New("image is empty")

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Image is a decoded-and-validated image attachment.
type Image struct {
	Name     string
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Decode checks that data is a supported image format and records its
// dimensions. The bytes are copied.
func Decode(data []byte, name string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot read image %q: %w", name, err)
	}
	mime, ok := mimeTypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return &Image{
		Name:     name,
		Data:     append([]byte(nil), data...),
		MIMEType: mime,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// DataURL encodes the image as a base64 data URL.
func (i *Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Size returns the human readable byte size (e.g. "34 kB").
func (i *Image) Size() string {
	return humanize.Bytes(uint64(len(i.Data)))
}

// Equal reports whether both images carry identical bytes.
func (i *Image) Equal(other *Image) bool {
	if i == nil || other == nil {
		return i == other
	}
	return bytes.Equal(i.Data, other.Data)
}

// Clone returns a deep copy.
func (i *Image) Clone() *Image {
	if i == nil {
		return nil
	}
	c := *i
	c.Data = append([]byte(nil), i.Data...)
	return &c
}
