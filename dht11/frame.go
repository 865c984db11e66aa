// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"
	"sync/atomic"

	"github.com/GermanBionicSystems/singlewire/common"
	"periph.io/x/conn/v3/physic"
)

const (
	// FrameBits is the number of bits the sensor sends per reading.
	FrameBits = 40

	frameMask  = 1<<FrameBits - 1
	countShift = 56
	countMax   = 0xff
)

// Frame holds the 40 bits received from the sensor in its low bits. The first
// bit received is bit 39.
type Frame uint64

// FrameFromBytes packs the five bytes in the order the sensor sends them:
// humidity integer, humidity decimal, temperature integer, temperature
// decimal and checksum.
func FrameFromBytes(b [5]byte) Frame {
	var f Frame
	for _, v := range b {
		f = f<<8 | Frame(v)
	}
	return f
}

// Bytes returns the frame in wire order.
func (f Frame) Bytes() [5]byte {
	return [5]byte{f.HumidityInt(), f.HumidityDec(), f.TemperatureInt(), f.TemperatureDec(), f.Checksum()}
}

func (f Frame) HumidityInt() uint8    { return uint8(f >> 32) }
func (f Frame) HumidityDec() uint8    { return uint8(f >> 24) }
func (f Frame) TemperatureInt() uint8 { return uint8(f >> 16) }
func (f Frame) TemperatureDec() uint8 { return uint8(f >> 8) }
func (f Frame) Checksum() uint8       { return uint8(f) }

// Sum returns the checksum computed over the four data bytes.
func (f Frame) Sum() uint8 {
	b := f.Bytes()
	return common.Sum8(b[:4])
}

// Valid reports whether the checksum byte matches the data bytes.
func (f Frame) Valid() bool {
	return f.Sum() == f.Checksum()
}

// Reading returns the values carried by the frame. It does not check the
// checksum.
func (f Frame) Reading() Reading {
	return Reading{
		Temperature: Temperature{Integer: f.TemperatureInt(), Decimal: f.TemperatureDec()},
		Humidity:    f.HumidityInt(),
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("%010x", uint64(f)&frameMask)
}

// Temperature is a temperature in °C as reported by the sensor.
type Temperature struct {
	Integer uint8
	Decimal uint8
}

// Physic converts the temperature. The decimal part is in tenths of a degree.
func (t Temperature) Physic() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(t.Integer)*physic.Celsius + physic.Temperature(t.Decimal)*(physic.Celsius/10)
}

func (t Temperature) String() string {
	return fmt.Sprintf("%d.%d°C", t.Integer, t.Decimal)
}

// Reading is a validated measurement.
type Reading struct {
	Temperature Temperature
	// Humidity is the relative humidity in percent.
	Humidity uint8
}

// Env converts the reading. The pressure is always 0.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: r.Temperature.Physic(),
		Humidity:    physic.RelativeHumidity(r.Humidity) * physic.PercentRH,
	}
}

// capture is the bit accumulator shared between FallingEdge and Poll. The
// frame bits and the number of bits received live in a single word so a
// reader can never see one without the other.
type capture struct {
	w atomic.Uint64
}

func (c *capture) reset() {
	c.w.Store(0)
}

func (c *capture) push(one bool) {
	for {
		old := c.w.Load()
		f := (old << 1) & frameMask
		if one {
			f |= 1
		}
		n := old >> countShift
		if n < countMax {
			n++
		}
		if c.w.CompareAndSwap(old, n<<countShift|f) {
			return
		}
	}
}

func (c *capture) bits() int {
	return int(c.w.Load() >> countShift)
}

func (c *capture) snapshot() (Frame, int) {
	w := c.w.Load()
	return Frame(w & frameMask), int(w >> countShift)
}
