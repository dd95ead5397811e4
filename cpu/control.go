package cpu

import (
	"log"

	"github.com/ezrec/sap8/bus"
)

// SeqState is the control sequencer's major state.
type SeqState int

//go:generate go tool stringer -linecomment -type=SeqState
const (
	SEQ_RESET   = SeqState(0) // reset
	SEQ_LOAD    = SeqState(1) // load
	SEQ_FETCH   = SeqState(2) // fetch
	SEQ_EXECUTE = SeqState(3) // execute
	SEQ_HALT    = SeqState(4) // halt
)

// FETCH_STEPS is the fixed length of the fetch micro-program.
const FETCH_STEPS = 2

// Inputs are the boundary signals the sequencer samples each cycle.
type Inputs struct {
	Reset       bool   // level-sensitive external reset
	Programming bool   // external programming request
	Opcode      Opcode // instruction register high nibble
}

// Loader is the LOAD-mode state: the next memory address to fill and
// the ready/done handshake lines.
type Loader struct {
	Addr  byte // next cell to write, 0..15
	Ready bool // a byte presented this cycle is written on the edge
	Done  bool // all 16 cells written this load session
}

// Sequencer is the control unit: a finite-state machine producing the
// control word for every cycle, one micro-step at a time, and
// arbitrating between Load mode and Run mode.
//
// Each cycle has two phases. Eval is the combinational phase: given
// the sampled inputs it returns the control lines for this cycle
// without touching state. Advance is the rising edge: it commits the
// state transition. Callers must resolve the bus and latch the
// datapath between the two.
type Sequencer struct {
	Verbose bool            // Set to enable verbose logging.
	Set     *InstructionSet // Opcode-to-micro-program table.

	state  SeqState
	step   int
	halted bool
	loader Loader
}

// NewSequencer creates a sequencer over an instruction set.
func NewSequencer(set *InstructionSet) *Sequencer {
	return &Sequencer{Set: set}
}

// State returns the current major state.
func (seq *Sequencer) State() SeqState {
	return seq.state
}

// Step returns the micro-step within the current state.
func (seq *Sequencer) Step() int {
	return seq.step
}

// HaltFlag reports the terminal halt condition. Once asserted it
// holds until external reset.
func (seq *Sequencer) HaltFlag() bool {
	return seq.halted
}

// Loader returns the current loader state.
func (seq *Sequencer) Loader() Loader {
	return seq.loader
}

// Loading reports whether memory addressing belongs to the loader
// this cycle rather than the address latch.
func (seq *Sequencer) Loading() bool {
	return seq.state == SEQ_LOAD
}

// Eval returns the control word for the current cycle.
func (seq *Sequencer) Eval(in Inputs) (w bus.ControlWord) {
	if in.Reset {
		// Reset overrides any in-progress micro-program.
		return 0
	}

	switch seq.state {
	case SEQ_RESET, SEQ_HALT:
		// No lines: no bus activity, no mutation.
	case SEQ_LOAD:
		if seq.loader.Ready {
			w = bus.EN | bus.LR
		}
	case SEQ_FETCH:
		if seq.step == 0 {
			w = bus.EP | bus.LMA
		} else {
			w = bus.CE | bus.LI | bus.CP
		}
	case SEQ_EXECUTE:
		micro := seq.Set.MicroProgram(in.Opcode)
		if seq.step < len(micro) {
			w = micro[seq.step].Control()
		}
	}

	if seq.Verbose {
		log.Printf("seq: %v.%v op=%x %v", seq.state, seq.step, byte(in.Opcode), w)
	}

	return
}

// Advance commits the rising-edge state transition.
func (seq *Sequencer) Advance(in Inputs) {
	if in.Reset {
		// Level-sensitive: every cycle under reset re-clears.
		seq.state = SEQ_RESET
		seq.step = 0
		seq.halted = false
		seq.loader = Loader{}
		return
	}

	switch seq.state {
	case SEQ_RESET:
		if in.Programming {
			seq.state = SEQ_LOAD
			seq.loader = Loader{Ready: true}
		} else {
			seq.state = SEQ_FETCH
		}
		seq.step = 0

	case SEQ_LOAD:
		if !in.Programming {
			// Leave load mode; the caller clears the program
			// counter on the same edge.
			seq.state = SEQ_FETCH
			seq.step = 0
			seq.loader.Addr = 0
			seq.loader.Ready = false
			return
		}
		if seq.loader.Ready {
			// The presented byte was written this cycle.
			seq.loader.Addr = (seq.loader.Addr + 1) & 0x0f
			if seq.loader.Addr == 0 {
				seq.loader.Done = true
			}
			seq.loader.Ready = false
		} else {
			seq.loader.Ready = true
		}

	case SEQ_FETCH:
		seq.step++
		if seq.step >= FETCH_STEPS {
			seq.state = SEQ_EXECUTE
			seq.step = 0
		}

	case SEQ_EXECUTE:
		micro := seq.Set.MicroProgram(in.Opcode)
		if seq.step < len(micro) && micro[seq.step].Class == MICRO_HALT {
			seq.halted = true
			seq.state = SEQ_HALT
			seq.step = 0
			return
		}
		seq.step++
		if seq.step >= len(micro) {
			seq.state = SEQ_FETCH
			seq.step = 0
		}

	case SEQ_HALT:
		// Terminal until reset.
	}
}
