// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"periph.io/x/conn/v3/physic"
)

// recorder is a display.Drawer that keeps the last frame.
type recorder struct {
	bounds image.Rectangle
	img    *image.RGBA
}

func (r *recorder) String() string          { return "recorder" }
func (r *recorder) Halt() error             { return nil }
func (r *recorder) ColorModel() color.Model { return color.RGBAModel }
func (r *recorder) Bounds() image.Rectangle { return r.bounds }

func (r *recorder) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	r.img = image.NewRGBA(r.bounds)
	draw.Draw(r.img, dstRect, src, sp, draw.Src)
	return nil
}

// lit counts the pixels set to c between rows y0 and y1.
func lit(img *image.RGBA, y0, y1 int, c color.Color) int {
	n := 0
	b := img.Bounds()
	for y := y0; y < y1; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) == color.RGBAModel.Convert(c) {
				n++
			}
		}
	}
	return n
}

func TestDraw(t *testing.T) {
	dst := &recorder{bounds: image.Rect(0, 0, 128, 32)}
	e := physic.Env{Temperature: physic.ZeroCelsius + 22*physic.Celsius, Humidity: 25 * physic.PercentRH}
	if err := Draw(dst, e, nil); err != nil {
		t.Fatal(err)
	}
	if dst.img == nil {
		t.Fatal("nothing drawn")
	}
	if n := lit(dst.img, 0, 13, color.White); n == 0 {
		t.Error("temperature line is empty")
	}
	if n := lit(dst.img, 13, 26, color.White); n == 0 {
		t.Error("humidity line is empty")
	}
	if n := lit(dst.img, 26, 32, color.White); n != 0 {
		t.Errorf("%d pixels drawn below the text", n)
	}
}

func TestDraw_Colors(t *testing.T) {
	dst := &recorder{bounds: image.Rect(0, 0, 128, 32)}
	red := color.RGBA{255, 0, 0, 255}
	if err := Draw(dst, physic.Env{}, &Opts{Foreground: red, Background: color.White}); err != nil {
		t.Fatal(err)
	}
	if n := lit(dst.img, 0, 32, red); n == 0 {
		t.Error("no foreground pixel")
	}
	if n := lit(dst.img, 0, 32, color.Black); n != 0 {
		t.Errorf("%d pixels use the default background", n)
	}
}

func TestDraw_TooSmall(t *testing.T) {
	dst := &recorder{bounds: image.Rect(0, 0, 128, 8)}
	if err := Draw(dst, physic.Env{}, nil); err == nil {
		t.Fatal("expected an error")
	}
	if dst.img != nil {
		t.Error("drew on a display that is too small")
	}
}
