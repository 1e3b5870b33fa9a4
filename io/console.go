package io

import (
	"bufio"
	"io"
	"log"
)

// Console is the output consumer. It forwards characters from Input to
// Output as they arrive, and once Stop is signalled drains whatever is
// still queued before returning.
type Console struct {
	Verbose bool // If set, logs shutdown.

	Input  Channel         // Characters produced by the engine.
	Output io.Writer       // External sink.
	Stop   <-chan struct{} // Stop request from the Monitor.

	Written int // Characters written to Output.
}

// flush writes all currently queued characters to the output.
func (con *Console) flush(out *bufio.Writer) (err error) {
	for value := range con.Input.Receive() {
		_, err = out.WriteRune(value)
		if err != nil {
			return
		}
		con.Written++
	}

	err = out.Flush()
	return
}

// Run consumes the Input channel until a stop request arrives.
func (con *Console) Run() (err error) {
	if con.Input == nil || con.Output == nil {
		err = ErrChannelInvalid
		return
	}

	out := bufio.NewWriter(con.Output)

	for {
		select {
		case <-con.Input.Ready():
			err = con.flush(out)
			if err != nil {
				return
			}
		case _, ok := <-con.Stop:
			// Everything sent before the halt is already queued.
			err = con.flush(out)
			if con.Verbose {
				log.Printf("console: stop (open %v), %d characters written", ok, con.Written)
			}
			return
		}
	}
}
