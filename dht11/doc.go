// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 reads an AOSONG DHT11 temperature and humidity sensor over its
// single-wire, pulse-width encoded bus without blocking the caller.
//
// The driver is split in two halves that run in different contexts. Dev.Poll
// is a non-blocking state machine that must be called periodically, faster
// than the 18ms wake pulse. Dev.FallingEdge is called once per falling edge of
// the data line while a frame is being received and decodes one bit per call
// from the interval measured by a free running counter.
//
// The hardware is reached through the Port interface. PinPort implements it on
// top of any periph.io gpio.PinIO. Dev also implements physic.SenseEnv for
// callers that prefer a blocking API; Sense drives Poll itself.
//
// A frame is 40 bits, most significant bit first:
//
//	humidity integer, humidity decimal, temperature integer,
//	temperature decimal, checksum
//
// A reading is only committed when all 40 bits arrived and the checksum (the
// byte sum of the four data fields) matches. Otherwise the previous reading is
// kept and the failure is reported by Poll and Outcome.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11
