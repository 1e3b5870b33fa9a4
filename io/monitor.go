package io

import (
	"log"
)

// Monitor waits for the engine's halt and asks the Console to stop.
type Monitor struct {
	Verbose bool // If set, logs the forwarded halt.

	Status <-chan Status   // Halt events from the engine.
	Stop   chan<- struct{} // Stop requests to the Console.
}

// Run blocks until the engine halts, forwards a single stop request,
// and returns the halt status.
//
// A status channel closed without a halt still stops the Console, and
// reports ErrStatusMissing.
func (mon *Monitor) Run() (status Status, err error) {
	status, ok := <-mon.Status
	if !ok {
		err = ErrStatusMissing
	}

	if mon.Verbose {
		log.Printf("monitor: halt at ip %#x (%v)", status.Ip, status.Err)
	}

	mon.Stop <- struct{}{}

	return
}
