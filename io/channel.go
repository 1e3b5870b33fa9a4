// Package io provides the device side of the rvm virtual machine.
//
// The execution engine writes characters to an output Channel and reports
// its halt on a Status channel. A Monitor turns that halt into a stop request,
// and a Console drains the output Channel to an external writer until it is
// told to stop, flushing whatever is still queued before it exits.
package io

import (
	"iter"
)

// Channel is a single-producer, single-consumer character queue.
type Channel interface {
	// Rewind discards any queued characters.
	Rewind()
	// Send appends a character. It never blocks.
	Send(value rune) error
	// Receive yields the characters queued at the time of the call, in order.
	Receive() iter.Seq[rune]
	// Ready is signalled after a Send to a possibly empty channel.
	Ready() <-chan struct{}
}

// Status is the halt event the engine sends to the Monitor.
type Status struct {
	Ip  uint32 // Instruction pointer of the halting instruction.
	Err error  // Fault that stopped the engine, nil for a clean halt.
}
