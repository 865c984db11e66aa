// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht11 reads a DHT11 temperature and humidity sensor wired to a GPIO pin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/singlewire/dht11"
	"github.com/GermanBionicSystems/singlewire/gauge"
	"github.com/GermanBionicSystems/singlewire/readout"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	pinName := flag.String("p", "", "GPIO pin the sensor data line is wired to")
	interval := flag.Duration("i", 2*time.Second, "sampling interval")
	pollInterval := flag.Duration("poll", time.Millisecond, "state machine poll interval")
	pullUp := flag.Bool("pullup", true, "enable the internal pull-up; disable when an external resistor is fitted")
	bars := flag.Bool("g", false, "display the readings as bars")
	pngPath := flag.String("png", "", "also render the last reading as a 128x32 PNG image to this file")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *pinName == "" {
		return errors.New("-p is required")
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	p := gpioreg.ByName(*pinName)
	if p == nil {
		return fmt.Errorf("invalid pin %q", *pinName)
	}
	pinOpts := dht11.DefaultPinOpts
	if !*pullUp {
		pinOpts.Pull = gpio.Float
	}
	opts := dht11.DefaultOpts
	opts.PollInterval = *pollInterval
	dev, err := dht11.New(dht11.NewPinPort(p, &pinOpts), &opts)
	if err != nil {
		return err
	}
	log.Printf("using %s", dev)

	show := func(e physic.Env) error {
		_, err := fmt.Printf("%8s %9s\n", e.Temperature, e.Humidity)
		return err
	}
	if *bars {
		g, err := gauge.New(nil)
		if err != nil {
			return err
		}
		defer g.Halt()
		show = g.Show
	}
	if *pngPath != "" {
		img := newPNGDrawer(*pngPath, 128, 32)
		prev := show
		show = func(e physic.Env) error {
			if err := prev(e); err != nil {
				return err
			}
			return readout.Draw(img, e, nil)
		}
	}

	ch, err := dev.SenseContinuous(*interval)
	if err != nil {
		return err
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	stats := time.NewTicker(time.Minute)
	defer stats.Stop()
	for {
		select {
		case <-stop:
			log.Printf("%+v", dev.Stats())
			return dev.Halt()
		case <-stats.C:
			log.Printf("%+v", dev.Stats())
			if err := dev.Err(); err != nil {
				log.Printf("last cycle: %v", err)
			}
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if err := show(e); err != nil {
				return err
			}
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht11: %s.\n", err)
		os.Exit(1)
	}
}
