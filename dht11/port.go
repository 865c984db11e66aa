// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "time"

// Line controls the direction and level of the sensor data line.
type Line interface {
	// ConfigureOutput makes the host drive the line.
	ConfigureOutput() error
	// ConfigureInterruptInput releases the line and arranges for onFalling to
	// be called on every falling edge until ConfigureOutput is called again.
	ConfigureInterruptInput(onFalling func()) error
	SetHigh() error
	SetLow() error
}

// Clock is a monotonic time source. The state machine snapshots it and
// compares differences against its timeouts.
type Clock interface {
	Elapsed() time.Duration
}

// Counter is a free running microsecond counter used to time the interval
// between two falling edges. It is reset after every edge and is independent
// from Clock, even when both are backed by the same timer.
type Counter interface {
	ResetCounter(v uint32)
	CounterValue() uint32
}

// Port is everything Dev needs from the hardware.
type Port interface {
	Line
	Clock
	Counter
}
