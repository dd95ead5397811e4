package datapath

// RAM_SIZE is the number of addressable cells.
const RAM_SIZE = 16

// Ram is the 16x8 memory array: combinational read of the selected
// cell, synchronous write on a rising edge. Contents deliberately
// survive a soft reset so a staged program can be re-run without a
// reload.
type Ram struct {
	cell [RAM_SIZE]byte
	addr byte
}

// Select sets the read/write address for the current cycle.
func (ram *Ram) Select(addr byte) {
	ram.addr = addr & 0x0f
}

// Drive places the selected cell on the bus.
func (ram *Ram) Drive() byte {
	return ram.cell[ram.addr]
}

// Write stores value at the selected address on a rising edge.
func (ram *Ram) Write(value byte) {
	ram.cell[ram.addr] = value
}

// At reads a cell directly, outside the bus. Used by inspection and
// test paths only.
func (ram *Ram) At(addr byte) byte {
	return ram.cell[addr&0x0f]
}

// SetAt stores a cell directly, outside the bus and the loader.
func (ram *Ram) SetAt(addr byte, value byte) {
	ram.cell[addr&0x0f] = value
}
