// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the 8-bit additive checksum used by single-wire humidity sensors.
package common

// Sum8 adds the bytes of the slice parameter and returns the sum truncated to
// a byte. This is the checksum the DHT family of sensors appends to a frame.
func Sum8(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return sum
}
