// Package bus models the shared 8-bit bus and its control lines.
//
// The physical machine time-multiplexes one bus between the program
// counter, memory, instruction register, accumulator, ALU, and the
// external input port. In simulation the tri-state wire becomes an
// explicit arbitration step: exactly one enabled source per cycle, a
// defined zero when nothing drives, and a panic when the control unit
// enables two sources at once.
package bus

import (
	"math/bits"
	"strings"
)

// ControlWord is the full set of control lines asserted in one cycle.
// All lines are active-high; the hardware's active-low load/enable
// polarity is a pad-level detail, not modeled here.
type ControlWord uint16

const (
	CP  = ControlWord(1 << 0)  // program counter increment pulse
	EP  = ControlWord(1 << 1)  // program counter drives the bus
	LP  = ControlWord(1 << 2)  // program counter loads from the bus
	LMA = ControlWord(1 << 3)  // address latch loads from the bus
	LMD = ControlWord(1 << 4)  // data latch loads from the bus
	CE  = ControlWord(1 << 5)  // memory drives the addressed cell onto the bus
	LR  = ControlWord(1 << 6)  // memory writes on the next edge
	LI  = ControlWord(1 << 7)  // instruction register loads from the bus
	EI  = ControlWord(1 << 8)  // instruction register operand drives the bus
	LA  = ControlWord(1 << 9)  // accumulator loads from the bus
	EA  = ControlWord(1 << 10) // accumulator drives the bus
	SU  = ControlWord(1 << 11) // ALU subtract select
	EU  = ControlWord(1 << 12) // ALU drives the bus
	LB  = ControlWord(1 << 13) // B register loads from the bus
	LO  = ControlWord(1 << 14) // output register loads from the bus
	EN  = ControlWord(1 << 15) // external input port drives the bus
)

// driverLines are the lines that request bus ownership.
const driverLines = EP | CE | EI | EA | EU | EN

var lineName = map[ControlWord]string{
	CP: "cp", EP: "ep", LP: "lp",
	LMA: "lma", LMD: "lmd",
	CE: "ce", LR: "lr",
	LI: "li", EI: "ei",
	LA: "la", EA: "ea",
	SU: "su", EU: "eu",
	LB: "lb", LO: "lo",
	EN: "en",
}

// Has reports whether every line in lines is asserted.
func (w ControlWord) Has(lines ControlWord) bool {
	return (w & lines) == lines
}

// Drivers returns the number of asserted bus-driver lines.
func (w ControlWord) Drivers() int {
	return bits.OnesCount16(uint16(w & driverLines))
}

// String returns the asserted lines, lowest bit first.
func (w ControlWord) String() string {
	if w == 0 {
		return "-"
	}
	var names []string
	for bit := ControlWord(1); bit != 0; bit <<= 1 {
		if w.Has(bit) {
			names = append(names, lineName[bit])
		}
	}
	return strings.Join(names, "|")
}

// Driver identifies a bus source.
type Driver int

const (
	DRIVER_PC    = Driver(0) // program counter low nibble
	DRIVER_RAM   = Driver(1) // addressed memory cell
	DRIVER_IR    = Driver(2) // instruction register operand nibble
	DRIVER_A     = Driver(3) // accumulator
	DRIVER_ALU   = Driver(4) // ALU result
	DRIVER_INPUT = Driver(5) // external input port

	DRIVER_COUNT = 6
)

// driverLine maps each driver to its enable line.
var driverLine = [DRIVER_COUNT]ControlWord{
	DRIVER_PC:    EP,
	DRIVER_RAM:   CE,
	DRIVER_IR:    EI,
	DRIVER_A:     EA,
	DRIVER_ALU:   EU,
	DRIVER_INPUT: EN,
}

var driverName = [DRIVER_COUNT]string{
	"pc", "ram", "ir", "a", "alu", "input",
}

// Line returns the control line that enables this driver.
func (d Driver) Line() ControlWord {
	return driverLine[d]
}

func (d Driver) String() string {
	if d < 0 || int(d) >= len(driverName) {
		return "driver?"
	}
	return driverName[d]
}

// Source produces the byte a driver would place on the bus.
type Source interface {
	Drive() byte
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() byte

func (fn SourceFunc) Drive() byte { return fn() }

// Arbiter resolves the bus value for each cycle.
type Arbiter struct {
	source [DRIVER_COUNT]Source
}

// Attach connects a source to a driver slot. A nil source detaches.
func (ab *Arbiter) Attach(d Driver, src Source) {
	ab.source[d] = src
}

// Resolve returns the bus value for the given control word.
//
// With no driver enabled the bus is a defined zero. Two or more
// enabled drivers is a defect in the control unit, never a runtime
// condition, so it panics rather than picking a winner.
func (ab *Arbiter) Resolve(w ControlWord) (value byte) {
	if n := w.Drivers(); n > 1 {
		panic("bus: " + w.String() + ": multiple drivers")
	}

	for d := Driver(0); d < DRIVER_COUNT; d++ {
		if !w.Has(driverLine[d]) {
			continue
		}
		src := ab.source[d]
		if src == nil {
			panic("bus: no source attached for driver " + d.String())
		}
		value = src.Drive()
		break
	}

	return
}
