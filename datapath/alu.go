package datapath

// Alu adds or subtracts the accumulator and B register every cycle.
// Subtraction is two's-complement (A + ^B + 1), so the carry-out
// doubles as a no-borrow indicator. The flag registers re-sample on
// every clock edge, whether or not the result reaches the bus.
type Alu struct {
	A *Register // accumulator operand
	B *Register // B register operand

	Subtract bool // subtract-select line, set by the control unit

	carry bool
	zero  bool
}

// Eval combinationally computes the current result and candidate
// flags from the operand registers and the subtract line.
func (alu *Alu) Eval() (sum byte, carry, zero bool) {
	a := uint16(alu.A.Value())
	b := uint16(alu.B.Value())

	var r uint16
	if alu.Subtract {
		r = a + (b ^ 0xff) + 1
	} else {
		r = a + b
	}

	sum = byte(r)
	carry = (r & 0x100) != 0
	zero = sum == 0
	return
}

// Drive places the current result on the bus.
func (alu *Alu) Drive() byte {
	sum, _, _ := alu.Eval()
	return sum
}

// LatchFlags samples the candidate flags on a rising edge.
func (alu *Alu) LatchFlags() {
	_, alu.carry, alu.zero = alu.Eval()
}

// CarryFlag returns the registered carry (or no-borrow) flag.
func (alu *Alu) CarryFlag() bool {
	return alu.carry
}

// ZeroFlag returns the registered all-zero flag.
func (alu *Alu) ZeroFlag() bool {
	return alu.zero
}

// Reset clears the registered flags and the subtract line.
func (alu *Alu) Reset() {
	alu.Subtract = false
	alu.carry = false
	alu.zero = false
}
