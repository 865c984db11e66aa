// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readout draws environmental readings as text on a display.Drawer,
// for example an SSD1306 OLED or a Waveshare e-paper panel.
package readout

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

// Opts holds the rendering options. Nil fields use DefaultOpts.
type Opts struct {
	Face       font.Face
	Foreground color.Color
	Background color.Color
}

// DefaultOpts draws white 7x13 text on black.
var DefaultOpts = Opts{
	Face:       basicfont.Face7x13,
	Foreground: color.White,
	Background: color.Black,
}

// Draw renders the temperature on the first line and the humidity on the
// second line and pushes the whole frame to dst. The Opts can be nil.
func Draw(dst display.Drawer, e physic.Env, opts *Opts) error {
	o := DefaultOpts
	if opts != nil {
		if opts.Face != nil {
			o.Face = opts.Face
		}
		if opts.Foreground != nil {
			o.Foreground = opts.Foreground
		}
		if opts.Background != nil {
			o.Background = opts.Background
		}
	}
	r := dst.Bounds()
	m := o.Face.Metrics()
	lineHeight := m.Height.Ceil()
	if r.Dy() < 2*lineHeight {
		return errors.New("readout: display too small for two lines")
	}

	img := image.NewRGBA(r)
	draw.Draw(img, r, &image.Uniform{o.Background}, image.Point{}, draw.Src)
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{o.Foreground},
		Face: o.Face,
	}
	for i, s := range []string{e.Temperature.String(), e.Humidity.String()} {
		drawer.Dot = fixed.P(r.Min.X+1, r.Min.Y+(i+1)*lineHeight-m.Descent.Ceil())
		drawer.DrawString(s)
	}
	return dst.Draw(r, img, r.Min)
}
