package io

import (
	"io"
	"iter"
)

// Tape is a stream-backed medium: bytes are read from Input and
// written to Output one at a time.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Source = (*Tape)(nil)
var _ Sink = (*Tape)(nil)

// Receive yields bytes from the input stream until it ends.
func (tc *Tape) Receive() iter.Seq[byte] {
	return func(yield func(value byte) bool) {
		for {
			var one [1]byte
			_, err := tc.Input.Read(one[:])
			if err != nil {
				return
			}
			if !yield(one[0]) {
				return
			}
		}
	}
}

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Send writes a byte to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}
