package io

import (
	"iter"
	"slices"
)

// Rom is an in-memory byte image.
type Rom struct {
	Data []byte
}

var _ Source = (*Rom)(nil)
var _ Sink = (*Rom)(nil)

// Receive yields the image bytes in address order.
func (rc *Rom) Receive() iter.Seq[byte] {
	return slices.Values(rc.Data)
}

// Rewind restarts the image. A fresh Receive always begins at the
// first byte, so there is nothing to reset.
func (rc *Rom) Rewind() {
}

// Send rejects writes.
func (rc *Rom) Send(value byte) error {
	return ErrReadOnly
}
