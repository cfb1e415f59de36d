package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := pngBytes(t, 4, 3)

	img, err := Decode(data, "dot.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Errorf("size = %dx%d, want 4x3", img.Width, img.Height)
	}
	if !strings.HasPrefix(img.DataURL(), "data:image/png;base64,") {
		t.Errorf("DataURL() = %q", img.DataURL())
	}
	if img.Size() == "" {
		t.Error("Size() should not be empty")
	}

	// Decode copies its input.
	data[0] = 0
	if img.Data[0] == data[0] {
		t.Error("image data should not share the input slice")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"), "notes.txt")
	if err == nil || !strings.Contains(err.Error(), "notes.txt") {
		t.Errorf("expected an error naming the file, got %v", err)
	}

	_, err = Decode(nil, "empty.png")
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("err = %v, want ErrEmptyImage", err)
	}
}

func TestImageEqual(t *testing.T) {
	a, err := Decode(pngBytes(t, 2, 2), "a.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !a.Equal(a.Clone()) {
		t.Error("an image should equal its clone")
	}

	c, err := Decode(pngBytes(t, 3, 2), "c.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Equal(c) {
		t.Error("different images should not be equal")
	}

	var none *Image
	if !none.Equal(nil) {
		t.Error("nil should equal nil")
	}
	if none.Equal(a) {
		t.Error("nil should not equal an image")
	}
}
