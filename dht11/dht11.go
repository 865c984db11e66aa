// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Opts holds the timing configuration of the device. Zero fields use the
// value from DefaultOpts.
type Opts struct {
	// StartDelay is how long the host holds the line low to wake the sensor.
	// The datasheet asks for at least 18ms.
	StartDelay time.Duration
	// RxTimeout bounds the reception of a frame. If the sensor stops sending
	// edges the cycle ends after this delay with a TimeoutError.
	RxTimeout time.Duration
	// BitThreshold is the interval between two falling edges, in Counter
	// ticks, above which a bit decodes as 1.
	BitThreshold uint32
	// PollInterval is the period at which Sense calls Poll.
	PollInterval time.Duration
	// MinSampleInterval is the shortest interval accepted by SenseContinuous.
	// The DHT11 cannot sample faster than once per second.
	MinSampleInterval time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	StartDelay:        18 * time.Millisecond,
	RxTimeout:         20 * time.Millisecond,
	BitThreshold:      85,
	PollInterval:      time.Millisecond,
	MinSampleInterval: time.Second,
}

// Stats counts what happened since the device was created.
type Stats struct {
	Cycles           uint64
	Successes        uint64
	Timeouts         uint64
	ChecksumFailures uint64
	PortFaults       uint64
	// DroppedEdges counts calls to FallingEdge outside of a reception.
	DroppedEdges uint64
	// Recoveries counts polls that found the state machine in an unknown
	// state and reset it.
	Recoveries uint64
}

type result struct {
	outcome Outcome
	err     error
}

// Dev is a handle to a DHT11 sensor.
type Dev struct {
	opts Opts
	port Port

	// mu serializes Poll. The fields below it are only touched by Poll.
	mu    sync.Mutex
	start time.Duration

	state   atomic.Uint32
	armed   atomic.Bool
	capture capture
	reading atomic.Pointer[Reading]
	last    atomic.Pointer[result]

	cycles, successes, timeouts, checksums, faults, dropped, recoveries atomic.Uint64

	senseMu  sync.Mutex
	haltMu   sync.Mutex
	shutdown chan struct{}
	done     chan struct{}
}

// New configures the data line as an output and returns a device in
// StateInit. The Opts can be nil.
func New(p Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{opts: *opts, port: p}
	if d.opts.StartDelay <= 0 {
		d.opts.StartDelay = DefaultOpts.StartDelay
	}
	if d.opts.RxTimeout <= 0 {
		d.opts.RxTimeout = DefaultOpts.RxTimeout
	}
	if d.opts.BitThreshold == 0 {
		d.opts.BitThreshold = DefaultOpts.BitThreshold
	}
	if d.opts.PollInterval <= 0 {
		d.opts.PollInterval = DefaultOpts.PollInterval
	}
	if d.opts.MinSampleInterval <= 0 {
		d.opts.MinSampleInterval = DefaultOpts.MinSampleInterval
	}
	if err := p.ConfigureOutput(); err != nil {
		return nil, errors.Join(errors.New("dht11: could not configure data line"), err)
	}
	d.last.Store(&result{})
	return d, nil
}

// RequestReading starts a reading cycle. It only has an effect in StateIdle;
// a cycle in progress is neither interrupted nor queued. It returns whether
// the request was accepted.
func (d *Dev) RequestReading() bool {
	return d.state.CompareAndSwap(uint32(StateIdle), uint32(StateStartInit))
}

// Poll advances the state machine by at most one transition. It never blocks
// and must be called at an interval shorter than Opts.StartDelay.
//
// It returns a *TimeoutError or *ChecksumError when the cycle that just
// ended failed, and a *PortError when the data line could not be driven.
// After any failure the machine goes back to StateInit on its own.
func (d *Dev) Poll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch s := d.State(); s {
	case StateInit:
		if err := d.port.ConfigureOutput(); err != nil {
			return d.fault(s, "configure output", err)
		}
		if err := d.port.SetHigh(); err != nil {
			return d.fault(s, "set high", err)
		}
		d.setState(StateIdle)

	case StateIdle:

	case StateStartInit:
		d.capture.reset()
		if err := d.port.SetLow(); err != nil {
			return d.fault(s, "set low", err)
		}
		d.start = d.port.Elapsed()
		d.setState(StateStartDelay)

	case StateStartDelay:
		if d.port.Elapsed()-d.start < d.opts.StartDelay {
			return nil
		}
		if err := d.port.SetHigh(); err != nil {
			return d.fault(s, "set high", err)
		}
		d.capture.reset()
		if err := d.port.ConfigureInterruptInput(d.FallingEdge); err != nil {
			return d.fault(s, "configure interrupt input", err)
		}
		// The capture window opens with the counter reset.
		d.port.ResetCounter(0)
		d.armed.Store(true)
		d.setState(StateStartEnd)

	case StateStartEnd:
		d.start = d.port.Elapsed()
		d.setState(StateReceive)

	case StateReceive:
		if d.port.Elapsed()-d.start < d.opts.RxTimeout && d.capture.bits() < FrameBits {
			return nil
		}
		d.armed.Store(false)
		d.setState(StateEvaluate)

	case StateEvaluate:
		d.setState(StateInit)
		return d.evaluate()

	default:
		d.recoveries.Add(1)
		d.armed.Store(false)
		d.setState(StateInit)
	}
	return nil
}

// FallingEdge decodes one bit. It must be called on every falling edge of the
// data line while a frame is received; Line.ConfigureInterruptInput is given
// this method. It only uses atomics and never blocks.
func (d *Dev) FallingEdge() {
	if !d.armed.Load() {
		d.dropped.Add(1)
		return
	}
	v := d.port.CounterValue()
	d.port.ResetCounter(0)
	d.capture.push(v > d.opts.BitThreshold)
}

// State returns the current state of the protocol state machine.
func (d *Dev) State() State {
	return State(d.state.Load())
}

// Outcome returns the result of the most recently completed cycle.
func (d *Dev) Outcome() Outcome {
	return d.last.Load().outcome
}

// Err returns the error of the most recently completed cycle, nil if it
// succeeded or if no cycle completed yet.
func (d *Dev) Err() error {
	return d.last.Load().err
}

// Temperature returns the last committed temperature. It is zero until the
// first successful cycle.
func (d *Dev) Temperature() Temperature {
	r, _ := d.Reading()
	return r.Temperature
}

// Humidity returns the last committed relative humidity in percent.
func (d *Dev) Humidity() uint8 {
	r, _ := d.Reading()
	return r.Humidity
}

// Reading returns the last committed reading and whether there is one.
func (d *Dev) Reading() (Reading, bool) {
	if r := d.reading.Load(); r != nil {
		return *r, true
	}
	return Reading{}, false
}

// Stats returns a snapshot of the device counters.
func (d *Dev) Stats() Stats {
	return Stats{
		Cycles:           d.cycles.Load(),
		Successes:        d.successes.Load(),
		Timeouts:         d.timeouts.Load(),
		ChecksumFailures: d.checksums.Load(),
		PortFaults:       d.faults.Load(),
		DroppedEdges:     d.dropped.Load(),
		Recoveries:       d.recoveries.Load(),
	}
}

// Sense runs one complete reading cycle, calling Poll every
// Opts.PollInterval, and returns the measurement. The pressure is always 0.
// On failure the previous reading is kept and e is not modified.
func (d *Dev) Sense(e *physic.Env) error {
	d.senseMu.Lock()
	defer d.senseMu.Unlock()

	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()
	deadline := time.Now().Add(4 * (d.opts.StartDelay + d.opts.RxTimeout))
	requested := false
	var cycles uint64
	for {
		if !requested {
			cycles = d.cycles.Load()
			requested = d.RequestReading()
		}
		err := d.Poll()
		if !requested {
			if err != nil {
				return err
			}
		} else if d.cycles.Load() != cycles {
			if err = d.Err(); err != nil {
				return err
			}
			r, _ := d.Reading()
			*e = r.Env()
			return nil
		}
		if time.Now().After(deadline) {
			return ErrNoReading
		}
		<-ticker.C
	}
}

// SenseContinuous reads the sensor every interval and sends the successful
// measurements to the returned channel. Failed cycles are skipped. It is the
// caller's responsibility to call Halt() when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.haltMu.Lock()
	defer d.haltMu.Unlock()
	if d.shutdown != nil {
		return nil, errSensing
	}
	if interval < d.opts.MinSampleInterval {
		return nil, errIntervalLow
	}
	d.shutdown = make(chan struct{})
	d.done = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go func(shutdown <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-shutdown:
					return
				}
			}
		}
	}(d.shutdown, d.done)
	return ch, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius / 10
	e.Pressure = 0
	e.Humidity = physic.PercentRH
}

// Halt stops a running SenseContinuous and halts the port if it implements
// conn.Resource. A concurrent Poll completes before the port is halted.
func (d *Dev) Halt() error {
	d.haltMu.Lock()
	if d.shutdown != nil {
		close(d.shutdown)
		<-d.done
		d.shutdown = nil
		d.done = nil
	}
	d.haltMu.Unlock()
	r, ok := d.port.(conn.Resource)
	if !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed.Store(false)
	return r.Halt()
}

func (d *Dev) String() string {
	if s, ok := d.port.(fmt.Stringer); ok {
		return fmt.Sprintf("dht11{%s}", s)
	}
	return "dht11"
}

func (d *Dev) setState(s State) {
	d.state.Store(uint32(s))
}

func (d *Dev) evaluate() error {
	f, n := d.capture.snapshot()
	d.cycles.Add(1)
	var r result
	switch {
	case n < FrameBits:
		d.timeouts.Add(1)
		r = result{outcome: OutcomeTimeout, err: &TimeoutError{Bits: n}}
	case !f.Valid():
		d.checksums.Add(1)
		r = result{outcome: OutcomeChecksum, err: &ChecksumError{Frame: f}}
	default:
		reading := f.Reading()
		d.reading.Store(&reading)
		d.successes.Add(1)
		r = result{outcome: OutcomeSuccess}
	}
	d.last.Store(&r)
	return r.err
}

// fault abandons the current cycle after a failed Line operation. A failure
// in StateInit is not a cycle; it is retried on the next Poll.
func (d *Dev) fault(s State, op string, err error) error {
	d.faults.Add(1)
	d.armed.Store(false)
	perr := &PortError{Op: op, Err: err}
	if s != StateInit {
		d.cycles.Add(1)
		d.last.Store(&result{outcome: OutcomePortFault, err: perr})
	}
	d.setState(StateInit)
	return perr
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
