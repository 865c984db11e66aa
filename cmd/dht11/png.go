// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"periph.io/x/conn/v3/display"
)

// pngDrawer is a display.Drawer that rewrites a PNG file on every Draw.
type pngDrawer struct {
	path string
	img  *image.NRGBA
}

func newPNGDrawer(path string, w, h int) *pngDrawer {
	return &pngDrawer{path: path, img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (p *pngDrawer) String() string {
	return p.path
}

func (p *pngDrawer) Halt() error {
	return nil
}

func (p *pngDrawer) ColorModel() color.Model {
	return p.img.ColorModel()
}

func (p *pngDrawer) Bounds() image.Rectangle {
	return p.img.Bounds()
}

func (p *pngDrawer) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(p.img, dstRect, src, sp, draw.Src)
	tmp := p.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}

var _ display.Drawer = &pngDrawer{}
