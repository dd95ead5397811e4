// Package emulator assembles the bus, control sequencer, and datapath
// into a whole machine with a cycle-accurate clock.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/sap8/bus"
	"github.com/ezrec/sap8/cpu"
	"github.com/ezrec/sap8/datapath"
	"github.com/ezrec/sap8/internal"
	"github.com/ezrec/sap8/io"
)

var _computer_defines = map[string]string{
	"RAM_SIZE": fmt.Sprintf("%v", datapath.RAM_SIZE),
}

// Computer is the full machine. The exported fields are its boundary
// pins: Reset, Programming, and DataIn are sampled at the start of
// every cycle, and the flag and handshake accessors read the outputs.
//
// Each Tick is one clock cycle in two phases. First the control word
// for the cycle is evaluated and the bus settles to a single value;
// then the rising edge commits every latch, the memory write, the
// program counter, the flags, and the sequencer transition at once.
type Computer struct {
	Verbose bool                // If set, enables verbose logging.
	Set     *cpu.InstructionSet // Opcode-to-micro-program table.

	Reset       bool // level-sensitive external reset
	Programming bool // request load mode at reset release
	DataIn      byte // external input port, read while the loader is ready

	Cycles int // clock cycles since power-on

	seq *cpu.Sequencer
	arb bus.Arbiter

	pc  datapath.ProgramCounter
	ir  datapath.InstructionRegister
	a   datapath.Register
	b   datapath.Register
	out datapath.Register
	mem datapath.MemoryLatch
	ram datapath.Ram
	alu datapath.Alu
}

// NewComputer wires a machine around an instruction set. A nil set
// selects the default table.
func NewComputer(set *cpu.InstructionSet) (c *Computer) {
	if set == nil {
		set = cpu.DefaultInstructionSet()
	}

	c = &Computer{
		Set: set,
		seq: cpu.NewSequencer(set),
	}
	c.alu.A = &c.a
	c.alu.B = &c.b

	c.arb.Attach(bus.DRIVER_PC, &c.pc)
	c.arb.Attach(bus.DRIVER_RAM, &c.ram)
	c.arb.Attach(bus.DRIVER_IR, &c.ir)
	c.arb.Attach(bus.DRIVER_A, &c.a)
	c.arb.Attach(bus.DRIVER_ALU, &c.alu)
	c.arb.Attach(bus.DRIVER_INPUT, bus.SourceFunc(func() byte { return c.DataIn }))

	return
}

// Defines returns assembler equates for the machine and its
// instruction set.
func (c *Computer) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_computer_defines),
		c.Set.Defines(),
	)
}

// Tick runs one full clock cycle.
func (c *Computer) Tick() {
	in := cpu.Inputs{
		Reset:       c.Reset,
		Programming: c.Programming,
		Opcode:      cpu.Opcode(c.ir.Opcode()),
	}

	// Combinational phase: control word, address mux, bus value.
	w := c.seq.Eval(in)

	c.alu.Subtract = w.Has(bus.SU)
	if c.seq.Loading() {
		c.ram.Select(c.seq.Loader().Addr)
	} else {
		c.ram.Select(c.mem.Addr())
	}
	value := c.arb.Resolve(w)

	if c.Verbose {
		log.Printf("tick %v: %v.%v %v bus=%#02x",
			c.Cycles, c.seq.State(), c.seq.Step(), w, value)
	}

	// Rising edge.
	c.Cycles++

	if c.Reset {
		// Soft reset: every register and flag clears, memory holds.
		c.pc.Reset()
		c.ir.Reset()
		c.mem.Reset()
		c.a.Reset()
		c.b.Reset()
		c.out.Reset()
		c.alu.Reset()
		c.seq.Advance(in)
		return
	}

	if !c.seq.HaltFlag() {
		// Flags sample the pre-edge computation.
		c.alu.LatchFlags()

		if w.Has(bus.LR) {
			c.ram.Write(value)
		}
		c.mem.Latch(w.Has(bus.LMA), w.Has(bus.LMD), value)
		c.ir.Latch(w.Has(bus.LI), value)
		c.a.Latch(w.Has(bus.LA), value)
		c.b.Latch(w.Has(bus.LB), value)
		c.out.Latch(w.Has(bus.LO), value)
		c.pc.Clock(w.Has(bus.LP), w.Has(bus.CP), value)

		if c.seq.Loading() && !in.Programming {
			// Leaving load mode restarts execution at cell zero.
			c.pc.Reset()
		}
	}

	c.seq.Advance(in)
}

// PowerOn applies and releases reset, leaving the machine at the start
// of its first fetch.
func (c *Computer) PowerOn() {
	c.Reset = true
	c.Tick()
	c.Reset = false
	c.Tick()
}

// LoadImage fills memory through the loader handshake: reset with the
// programming request asserted, one byte per ready cycle, a recovery
// cycle between bytes. A short image pads with zero cells; an image
// longer than memory is an error.
func (c *Computer) LoadImage(src io.Source) (err error) {
	pull, stop := iter.Pull(src.Receive())
	defer stop()

	c.Programming = true
	c.Reset = true
	c.Tick()
	c.Reset = false
	c.Tick()

	for !c.LoaderDone() {
		if c.LoaderReady() {
			value, ok := pull()
			if !ok {
				value = 0
			}
			c.DataIn = value
		}
		c.Tick()
	}

	c.DataIn = 0
	c.Programming = false
	c.Tick()

	if _, ok := pull(); ok {
		err = ErrImageTooLong
	}

	return
}

// Run ticks until the halt flag asserts, or limit cycles pass without
// it.
func (c *Computer) Run(limit int) (err error) {
	for n := 0; n < limit; n++ {
		if c.HaltFlag() {
			return
		}
		c.Tick()
	}

	if !c.HaltFlag() {
		err = ErrNoHalt(limit)
	}

	return
}

// Output returns the output register.
func (c *Computer) Output() byte {
	return c.out.Value()
}

// Accumulator returns the accumulator register.
func (c *Computer) Accumulator() byte {
	return c.a.Value()
}

// BRegister returns the B register.
func (c *Computer) BRegister() byte {
	return c.b.Value()
}

// ProgramCounter returns the 4-bit program counter.
func (c *Computer) ProgramCounter() byte {
	return c.pc.Value()
}

// CarryFlag returns the registered carry (or no-borrow) flag.
func (c *Computer) CarryFlag() bool {
	return c.alu.CarryFlag()
}

// ZeroFlag returns the registered zero flag.
func (c *Computer) ZeroFlag() bool {
	return c.alu.ZeroFlag()
}

// HaltFlag returns the terminal halt condition.
func (c *Computer) HaltFlag() bool {
	return c.seq.HaltFlag()
}

// LoaderReady reports that the loader accepts a byte this cycle.
func (c *Computer) LoaderReady() bool {
	return c.seq.Loader().Ready
}

// LoaderDone reports that a full image has been written this load
// session.
func (c *Computer) LoaderDone() bool {
	return c.seq.Loader().Done
}

// Peek reads a memory cell directly, outside the bus.
func (c *Computer) Peek(addr byte) byte {
	return c.ram.At(addr)
}

// Poke stores a memory cell directly, outside the bus and the loader.
func (c *Computer) Poke(addr byte, value byte) {
	c.ram.SetAt(addr, value)
}
