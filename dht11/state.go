// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "strconv"

// State is the position of the protocol state machine.
type State uint32

const (
	// StateInit drives the line high and moves to StateIdle.
	StateInit State = iota
	// StateIdle waits for RequestReading.
	StateIdle
	// StateStartInit pulls the line low to wake the sensor.
	StateStartInit
	// StateStartDelay holds the line low for Opts.StartDelay.
	StateStartDelay
	// StateStartEnd starts the receive timeout.
	StateStartEnd
	// StateReceive waits for 40 bits or Opts.RxTimeout.
	StateReceive
	// StateEvaluate validates the frame and commits the reading.
	StateEvaluate

	numStates
)

var stateNames = [numStates]string{
	"Init",
	"Idle",
	"StartInit",
	"StartDelay",
	"StartEnd",
	"Receive",
	"Evaluate",
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s < numStates
}

func (s State) String() string {
	if !s.Valid() {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Outcome is the result of the most recently completed reading cycle.
type Outcome uint32

const (
	// OutcomeNone means no cycle completed yet.
	OutcomeNone Outcome = iota
	// OutcomeSuccess means a valid frame was received and committed.
	OutcomeSuccess
	// OutcomeTimeout means fewer than 40 bits arrived before Opts.RxTimeout.
	OutcomeTimeout
	// OutcomeChecksum means the frame was complete but its checksum did not
	// match.
	OutcomeChecksum
	// OutcomePortFault means a Line operation failed and the cycle was
	// abandoned.
	OutcomePortFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "None"
	case OutcomeSuccess:
		return "Success"
	case OutcomeTimeout:
		return "Timeout"
	case OutcomeChecksum:
		return "Checksum"
	case OutcomePortFault:
		return "PortFault"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}
