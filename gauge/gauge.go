// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge renders environmental readings as two colored bars on a
// terminal using ANSI color codes, one for the temperature and one for the
// relative humidity.
//
// Useful to watch a sensor from an SSH session when no display is attached.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells of each bar.
	Width int
	// Min and Max are the temperatures mapped to an empty and a full bar.
	Min, Max physic.Temperature
	Palette  *ansi256.Palette

	_ struct{}
}

// DefaultOpts covers the DHT11 measurement range.
var DefaultOpts = Opts{
	Width: 20,
	Min:   physic.ZeroCelsius,
	Max:   physic.ZeroCelsius + 50*physic.Celsius,
}

// Dev is a terminal gauge.
type Dev struct {
	w        io.Writer
	width    int
	min, max physic.Temperature
	palette  ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console. The Opts can be nil.
func New(opts *Opts) (*Dev, error) {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes to w.
func NewWriter(w io.Writer, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Width <= 0 {
		return nil, errors.New("gauge: invalid width")
	}
	if opts.Max <= opts.Min {
		return nil, errors.New("gauge: Max must be above Min")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{w: w, width: opts.Width, min: opts.Min, max: opts.Max, palette: *p}, nil
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show redraws the current line with e.
func (d *Dev) Show(e physic.Env) error {
	t := fraction(int64(e.Temperature-d.min), int64(d.max-d.min))
	h := fraction(int64(e.Humidity), int64(100*physic.PercentRH))

	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	d.bar(t, color.NRGBA{uint8(255 * t), 0x40, uint8(255 * (1 - t)), 255})
	_, _ = d.buf.WriteString("\033[0m ")
	d.bar(h, color.NRGBA{0x20, uint8(128 + 127*h), 0xff, 255})
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %8s %9s", e.Temperature, e.Humidity)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// bar appends width cells, the first f*width of them filled with c.
func (d *Dev) bar(f float64, c color.NRGBA) {
	n := int(f*float64(d.width) + 0.5)
	for i := range d.width {
		if i < n {
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		} else {
			_ = d.buf.WriteByte(' ')
		}
	}
}

// fraction returns v/total clamped to [0, 1].
func fraction(v, total int64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= total {
		return 1
	}
	return float64(v) / float64(total)
}

var _ conn.Resource = &Dev{}
