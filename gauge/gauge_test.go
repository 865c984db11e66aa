// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gauge

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/physic"
)

func TestNew(t *testing.T) {
	for _, opts := range []Opts{
		{Width: 0, Max: physic.Celsius},
		{Width: 10, Min: physic.ZeroCelsius, Max: physic.ZeroCelsius},
	} {
		if _, err := NewWriter(&bytes.Buffer{}, &opts); err == nil {
			t.Errorf("NewWriter(%+v) accepted invalid options", opts)
		}
	}
	d, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "Gauge" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestShow(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewWriter(&buf, &Opts{Width: 10, Min: physic.ZeroCelsius, Max: physic.ZeroCelsius + 50*physic.Celsius})
	if err != nil {
		t.Fatal(err)
	}
	e := physic.Env{Temperature: physic.ZeroCelsius + 25*physic.Celsius, Humidity: 100 * physic.PercentRH}
	if err := d.Show(e); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "\r\033[0m") {
		t.Errorf("line not rewound: %q", s)
	}
	hot := ansi256.Default.Block(color.NRGBA{127, 0x40, 127, 255})
	if n := strings.Count(s, hot); n != 5 {
		t.Errorf("temperature bar has %d cells, want 5: %q", n, s)
	}
	wet := ansi256.Default.Block(color.NRGBA{0x20, 255, 0xff, 255})
	if n := strings.Count(s, wet); n != 10 {
		t.Errorf("humidity bar has %d cells, want 10: %q", n, s)
	}
	if !strings.Contains(s, e.Humidity.String()) {
		t.Errorf("humidity value missing: %q", s)
	}

	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", buf.String())
	}
}

func TestFraction(t *testing.T) {
	for _, tc := range []struct {
		v, total int64
		want     float64
	}{
		{-5, 10, 0},
		{0, 10, 0},
		{5, 10, 0.5},
		{10, 10, 1},
		{15, 10, 1},
	} {
		if got := fraction(tc.v, tc.total); got != tc.want {
			t.Errorf("fraction(%d, %d) = %f, want %f", tc.v, tc.total, got, tc.want)
		}
	}
}
