// Package datapath implements the storage and arithmetic elements the
// control unit drives: bus-connected registers, the program counter,
// the instruction register, the memory latch pair, the ALU, and the
// 16x8 RAM. Every element follows the same contract: outputs are
// combinational reads of held state, and held state changes only in
// an explicit clock-edge method.
package datapath

// Register is an 8-bit latch with a load enable.
type Register struct {
	value byte
}

// Value returns the held byte.
func (reg *Register) Value() byte {
	return reg.value
}

// Drive places the held byte on the bus.
func (reg *Register) Drive() byte {
	return reg.value
}

// Latch captures the bus value on a rising edge when load is
// asserted, and holds otherwise.
func (reg *Register) Latch(load bool, value byte) {
	if load {
		reg.value = value
	}
}

// Reset clears the held byte.
func (reg *Register) Reset() {
	reg.value = 0
}

// ProgramCounter is a 4-bit counter, loadable from the bus low nibble.
type ProgramCounter struct {
	value byte
}

// Value returns the counter, always in [0,15].
func (pc *ProgramCounter) Value() byte {
	return pc.value
}

// Drive places the counter on the bus low nibble. The upper bits hold
// the bus default.
func (pc *ProgramCounter) Drive() byte {
	return pc.value
}

// Clock applies one rising edge. Load (from the bus low nibble) takes
// priority over the increment pulse when both are asserted; increment
// wraps modulo 16.
func (pc *ProgramCounter) Clock(load, increment bool, value byte) {
	switch {
	case load:
		pc.value = value & 0x0f
	case increment:
		pc.value = (pc.value + 1) & 0x0f
	}
}

// Reset clears the counter.
func (pc *ProgramCounter) Reset() {
	pc.value = 0
}

// InstructionRegister latches a full instruction byte. The opcode
// nibble is visible only to the control unit; the operand nibble is
// the only part that ever drives the bus.
type InstructionRegister struct {
	value byte
}

// Opcode returns the high nibble.
func (ir *InstructionRegister) Opcode() byte {
	return ir.value >> 4
}

// Operand returns the low nibble.
func (ir *InstructionRegister) Operand() byte {
	return ir.value & 0x0f
}

// Drive places the operand nibble on the bus.
func (ir *InstructionRegister) Drive() byte {
	return ir.Operand()
}

// Latch captures the bus value on a rising edge when load is asserted.
func (ir *InstructionRegister) Latch(load bool, value byte) {
	if load {
		ir.value = value
	}
}

// Reset clears the instruction register.
func (ir *InstructionRegister) Reset() {
	ir.value = 0
}

// MemoryLatch holds the RAM address and write-data bytes, with an
// independent load enable for each.
type MemoryLatch struct {
	addr byte
	data byte
}

// Addr returns the held 4-bit address.
func (ml *MemoryLatch) Addr() byte {
	return ml.addr
}

// Data returns the held write-data byte.
func (ml *MemoryLatch) Data() byte {
	return ml.data
}

// Latch captures the bus value into the address and/or data half on a
// rising edge, per the two load enables.
func (ml *MemoryLatch) Latch(loadAddr, loadData bool, value byte) {
	if loadAddr {
		ml.addr = value & 0x0f
	}
	if loadData {
		ml.data = value
	}
}

// Reset clears both halves.
func (ml *MemoryLatch) Reset() {
	ml.addr = 0
	ml.data = 0
}
