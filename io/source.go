// Package io provides the byte sources and sinks the machine's loader
// and front panel connect to.
package io

import (
	"iter"
)

// Source supplies the byte image presented to the memory loader.
type Source interface {
	// Receive returns an iterator over the source's bytes, in
	// load order.
	Receive() iter.Seq[byte]

	// Rewind restarts the source from its first byte, when the
	// medium allows it.
	Rewind()
}

// Sink consumes bytes the machine emits.
type Sink interface {
	Send(value byte) error
}
