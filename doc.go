// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package singlewire is a container for drivers of sensors that talk over a
// single, self-clocked data line, and for the helpers used to show their
// readings.
//
// See package dht11 for the DHT11 temperature and humidity sensor.
package singlewire
