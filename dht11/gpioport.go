// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// PinOpts holds the configuration options for a PinPort.
type PinOpts struct {
	// Clock backs both Elapsed and the edge counter. Default is the real
	// clock.
	Clock clockwork.Clock
	// Pull is the pull resistor used while the sensor drives the line. The
	// DHT11 needs a pull-up; gpio.Float is fine when an external resistor is
	// fitted. DefaultPinOpts uses gpio.PullUp; the zero value keeps the pin's
	// current setting.
	Pull gpio.Pull
	// EdgeWait is how long the edge watcher blocks in WaitForEdge before it
	// checks whether it was stopped. Default is 10ms.
	EdgeWait time.Duration
}

// DefaultPinOpts holds the default configuration options for a PinPort.
var DefaultPinOpts = PinOpts{
	Pull:     gpio.PullUp,
	EdgeWait: 10 * time.Millisecond,
}

// PinPort implements Port with a periph.io GPIO pin. Falling edges are
// detected by a goroutine blocked in gpio.PinIn.WaitForEdge, which calls the
// handler given to ConfigureInterruptInput.
type PinPort struct {
	pin      gpio.PinIO
	clock    clockwork.Clock
	epoch    time.Time
	pull     gpio.Pull
	edgeWait time.Duration

	// counterStart is the clock reading, in ns since epoch, when the counter
	// was last reset.
	counterStart atomic.Int64

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPinPort returns a Port driving p. The PinOpts can be nil.
func NewPinPort(p gpio.PinIO, opts *PinOpts) *PinPort {
	if opts == nil {
		opts = &DefaultPinOpts
	}
	pp := &PinPort{pin: p, clock: opts.Clock, pull: opts.Pull, edgeWait: opts.EdgeWait}
	if pp.clock == nil {
		pp.clock = clockwork.NewRealClock()
	}
	if pp.edgeWait <= 0 {
		pp.edgeWait = DefaultPinOpts.EdgeWait
	}
	pp.epoch = pp.clock.Now()
	return pp
}

// ConfigureOutput stops the edge watcher and drives the line high, its idle
// level. It does not wait for the watcher to return; an edge it still
// reports reaches the handler, which ignores edges outside a reception.
func (pp *PinPort) ConfigureOutput() error {
	pp.stopWatcher()
	return pp.pin.Out(gpio.High)
}

// ConfigureInterruptInput releases the line and starts the edge watcher.
func (pp *PinPort) ConfigureInterruptInput(onFalling func()) error {
	pp.stopWatcher()
	if err := pp.pin.In(pp.pull, gpio.FallingEdge); err != nil {
		return err
	}
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.stop = make(chan struct{})
	pp.wg.Add(1)
	go pp.watch(pp.stop, onFalling)
	return nil
}

func (pp *PinPort) SetHigh() error {
	return pp.pin.Out(gpio.High)
}

func (pp *PinPort) SetLow() error {
	return pp.pin.Out(gpio.Low)
}

// Elapsed returns the time since the port was created.
func (pp *PinPort) Elapsed() time.Duration {
	return pp.clock.Since(pp.epoch)
}

// ResetCounter sets the edge counter to v microseconds.
func (pp *PinPort) ResetCounter(v uint32) {
	pp.counterStart.Store(int64(pp.Elapsed() - time.Duration(v)*time.Microsecond))
}

// CounterValue returns the microseconds since the last ResetCounter. It
// saturates instead of wrapping.
func (pp *PinPort) CounterValue() uint32 {
	us := (pp.Elapsed() - time.Duration(pp.counterStart.Load())) / time.Microsecond
	if us < 0 {
		return 0
	}
	if us > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(us)
}

// Halt stops the edge watcher, waits for it to return and leaves the line
// driven high.
func (pp *PinPort) Halt() error {
	pp.stopWatcher()
	pp.wg.Wait()
	return pp.pin.Out(gpio.High)
}

func (pp *PinPort) String() string {
	return pp.pin.String()
}

func (pp *PinPort) watch(stop <-chan struct{}, onFalling func()) {
	defer pp.wg.Done()
	for {
		select {
		case <-stop:
			return
		default:
		}
		if pp.pin.WaitForEdge(pp.edgeWait) {
			onFalling()
		}
	}
}

func (pp *PinPort) stopWatcher() {
	pp.mu.Lock()
	if pp.stop != nil {
		close(pp.stop)
		pp.stop = nil
	}
	pp.mu.Unlock()
}

var _ Port = &PinPort{}
var _ conn.Resource = &PinPort{}
var _ fmt.Stringer = &PinPort{}
