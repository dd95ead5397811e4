package cpu

import (
	"iter"

	"github.com/ezrec/sap8/datapath"
)

// Line is one assembled source line: its location, source words, and
// the bytes it emitted.
type Line struct {
	LineNo    int
	Addr      int
	Words     []string
	Bytes     []byte
	LinkLabel string
}

// Program is an assembled memory image with its source listing.
type Program struct {
	Lines []Line
}

// Binary returns the emitted bytes in address order.
func (prog *Program) Binary() (bins []byte) {
	for _, value := range prog.Bytes() {
		bins = append(bins, value)
	}

	return
}

// Image returns the full 16-cell memory image, zero padded.
func (prog *Program) Image() (image [datapath.RAM_SIZE]byte) {
	for addr, value := range prog.Bytes() {
		image[addr] = value
	}

	return
}

// Bytes iterates the emitted bytes as (address, value) pairs.
func (prog *Program) Bytes() iter.Seq2[byte, byte] {
	return func(yield func(addr byte, value byte) bool) {
		for _, line := range prog.Lines {
			addr := byte(line.Addr)
			for n, value := range line.Bytes {
				if !yield(addr+byte(n), value) {
					return
				}
			}
		}
	}
}

// Source returns the source line that emitted the byte at addr, or
// nil for padding.
func (prog *Program) Source(addr byte) *Line {
	for n, line := range prog.Lines {
		if int(addr) >= line.Addr && int(addr) < line.Addr+len(line.Bytes) {
			return &prog.Lines[n]
		}
	}

	return nil
}
