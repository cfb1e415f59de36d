package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"smartchat/media"
)

// PeopleCSV has a numeric "age" column and a text "name" column.
const PeopleCSV = "name,age,score\nann,31,88\nbob,25,92\ncy,40,75\ndee,NA,81\neve,52,95\n"

// PNGBytes returns a valid w x h PNG filled with one colour.
func PNGBytes(w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TestImage returns a decoded 4x3 PNG.
func TestImage(name string) *media.Image {
	img, err := media.Decode(PNGBytes(4, 3, color.White), name)
	if err != nil {
		panic(err)
	}
	return img
}
