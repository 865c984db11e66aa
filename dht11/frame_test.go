// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

func TestFrame(t *testing.T) {
	f := FrameFromBytes([5]byte{25, 0, 22, 0, 47})
	if f != 0x190016002f {
		t.Fatalf("FrameFromBytes() = %s", f)
	}
	if s := f.String(); s != "190016002f" {
		t.Errorf("String() = %q", s)
	}
	if f.HumidityInt() != 25 || f.HumidityDec() != 0 || f.TemperatureInt() != 22 || f.TemperatureDec() != 0 || f.Checksum() != 47 {
		t.Errorf("unexpected fields %v", f.Bytes())
	}
	if !f.Valid() {
		t.Error("valid frame reported invalid")
	}
	bad := FrameFromBytes([5]byte{25, 0, 22, 0, 48})
	if bad.Valid() {
		t.Error("corrupt frame reported valid")
	}
	if bad.Sum() != 47 {
		t.Errorf("Sum() = %d, want 47", bad.Sum())
	}
	// The checksum is truncated to a byte.
	if !FrameFromBytes([5]byte{200, 0, 100, 0, 44}).Valid() {
		t.Error("checksum overflow not truncated")
	}
}

func TestReadingEnv(t *testing.T) {
	r := Reading{Temperature: Temperature{Integer: 23, Decimal: 9}, Humidity: 34}
	want := physic.Env{
		Temperature: physic.ZeroCelsius + 23_900*physic.MilliKelvin,
		Humidity:    34 * physic.PercentRH,
	}
	if diff := cmp.Diff(r.Env(), want); diff != "" {
		t.Errorf("Env() difference (-got +want):\n%s", diff)
	}
	if s := r.Temperature.String(); s != "23.9°C" {
		t.Errorf("String() = %q", s)
	}
}

func TestCapture(t *testing.T) {
	var c capture
	for _, b := range []bool{true, false, true, true} {
		c.push(b)
	}
	if f, n := c.snapshot(); f != 0b1011 || n != 4 {
		t.Errorf("snapshot() = %s/%d", f, n)
	}
	c.reset()
	if f, n := c.snapshot(); f != 0 || n != 0 {
		t.Errorf("reset() left %s/%d", f, n)
	}
	// The count saturates and the frame keeps the most recent 40 bits.
	for i := range 300 {
		c.push(i%2 == 0)
	}
	f, n := c.snapshot()
	if n != countMax {
		t.Errorf("count %d != %d", n, countMax)
	}
	if f != 0xaaaaaaaaaa {
		t.Errorf("frame %s != aaaaaaaaaa", f)
	}
}

func TestStateString(t *testing.T) {
	for s := StateInit; s < numStates; s++ {
		if !s.Valid() || s.String() == "" {
			t.Errorf("state %d has no name", s)
		}
	}
	if s := State(numStates).String(); s != "State(7)" {
		t.Errorf("String() = %q", s)
	}
	if s := OutcomeChecksum.String(); s != "Checksum" {
		t.Errorf("String() = %q", s)
	}
	if s := Outcome(9).String(); s != "Outcome(9)" {
		t.Errorf("String() = %q", s)
	}
}
