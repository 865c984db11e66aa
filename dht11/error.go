// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReading is returned by Sense when the cycle did not finish in time.
	ErrNoReading = errors.New("dht11: no reading before deadline")

	errSensing     = errors.New("dht11: SenseContinuous already running")
	errIntervalLow = errors.New("dht11: sample interval is < device sample rate")
)

// TimeoutError is returned when the sensor stopped sending edges before a
// full frame was received.
type TimeoutError struct {
	Bits int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("dht11: receive timeout after %d of %d bits", e.Bits, FrameBits)
}

// ChecksumError is returned when a complete frame failed validation.
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch in frame %s: got 0x%02x, computed 0x%02x", e.Frame, e.Frame.Checksum(), e.Frame.Sum())
}

// PortError wraps a failed Line operation.
type PortError struct {
	Op  string
	Err error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("dht11: %s: %v", e.Op, e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}
