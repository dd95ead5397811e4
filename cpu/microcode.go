package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/ezrec/sap8/bus"
)

// Opcode is the 4-bit operation code held in the instruction
// register's high nibble.
type Opcode byte

// OPCODE_COUNT is the number of encodable opcodes.
const OPCODE_COUNT = 16

// MICRO_STEPS_MAX is the longest permitted micro-program.
const MICRO_STEPS_MAX = 4

// MicroClass is the kind of work a micro-step performs.
type MicroClass int

const (
	MICRO_TRANSFER = MicroClass(0) // move one byte across the bus
	MICRO_COMPUTE  = MicroClass(1) // ALU result across the bus
	MICRO_HALT     = MicroClass(2) // assert the halt flag, stop
)

// MicroOp is one micro-step of an instruction: the control lines for
// a single bus transfer, an ALU computation, or the halt.
type MicroOp struct {
	Class    MicroClass
	Src      bus.Driver      // transfer: the single bus driver
	Load     bus.ControlWord // transfer/compute: destination lines
	Subtract bool            // compute: ALU subtract select
}

// Transfer builds a micro-step that moves src's byte into the
// destinations named by load.
func Transfer(src bus.Driver, load bus.ControlWord) MicroOp {
	return MicroOp{Class: MICRO_TRANSFER, Src: src, Load: load}
}

// Compute builds a micro-step that places the ALU result on the bus.
func Compute(subtract bool, load bus.ControlWord) MicroOp {
	return MicroOp{Class: MICRO_COMPUTE, Subtract: subtract, Load: load}
}

// Halt builds the terminal micro-step.
func Halt() MicroOp {
	return MicroOp{Class: MICRO_HALT}
}

// Control compiles the micro-step to its control word.
func (op MicroOp) Control() (w bus.ControlWord) {
	switch op.Class {
	case MICRO_TRANSFER:
		w = op.Src.Line() | op.Load
	case MICRO_COMPUTE:
		w = bus.EU | op.Load
		if op.Subtract {
			w |= bus.SU
		}
	case MICRO_HALT:
		// No lines: nothing moves on the halt edge.
	default:
		panic("cpu: unknown micro-op class")
	}

	return
}

func (op MicroOp) String() string {
	switch op.Class {
	case MICRO_TRANSFER:
		return fmt.Sprintf("transfer %v -> %v", op.Src, op.Load)
	case MICRO_COMPUTE:
		if op.Subtract {
			return fmt.Sprintf("compute a-b -> %v", op.Load)
		}
		return fmt.Sprintf("compute a+b -> %v", op.Load)
	case MICRO_HALT:
		return "halt"
	}
	return "micro?"
}

// Instruction binds a mnemonic and opcode to an ordered micro-program.
type Instruction struct {
	Mnemonic   string
	Opcode     Opcode
	HasOperand bool // low nibble is an address operand
	Micro      []MicroOp
}

// InstructionSet is the opcode-to-micro-program table. The table is
// an input to the sequencer, not a constant of it; the default table
// reproduces the original hardware, and callers may build their own.
type InstructionSet struct {
	byOpcode   [OPCODE_COUNT]*Instruction
	byMnemonic map[string]*Instruction
}

// NewInstructionSet validates and indexes a table of instructions.
func NewInstructionSet(instructions ...Instruction) (set *InstructionSet, err error) {
	set = &InstructionSet{
		byMnemonic: make(map[string]*Instruction, len(instructions)),
	}

	for n := range instructions {
		inst := &instructions[n]

		if inst.Opcode >= OPCODE_COUNT {
			err = ErrOpcodeRange(inst.Opcode)
			return
		}
		if set.byOpcode[inst.Opcode] != nil {
			err = ErrOpcodeDuplicate(inst.Opcode)
			return
		}
		if _, ok := set.byMnemonic[inst.Mnemonic]; ok {
			err = ErrMnemonicDuplicate(inst.Mnemonic)
			return
		}
		if len(inst.Micro) > MICRO_STEPS_MAX {
			err = ErrMicroLength(inst.Mnemonic)
			return
		}

		// Every micro-step must settle to at most one bus driver.
		// A halt step may only end the program.
		for s, op := range inst.Micro {
			if op.Control().Drivers() > 1 {
				err = ErrMicroConflict(inst.Mnemonic)
				return
			}
			if op.Class == MICRO_HALT && s != len(inst.Micro)-1 {
				err = ErrMicroHalt(inst.Mnemonic)
				return
			}
		}

		set.byOpcode[inst.Opcode] = inst
		set.byMnemonic[inst.Mnemonic] = inst
	}

	return
}

// ByOpcode returns the instruction for an opcode, or nil when the
// opcode is undefined in this table.
func (set *InstructionSet) ByOpcode(op Opcode) *Instruction {
	if op >= OPCODE_COUNT {
		return nil
	}
	return set.byOpcode[op]
}

// ByMnemonic returns the instruction for a mnemonic, or nil.
func (set *InstructionSet) ByMnemonic(name string) *Instruction {
	return set.byMnemonic[name]
}

// MicroProgram returns the ordered micro-steps for an opcode. An
// undefined opcode has an empty micro-program: it executes as a
// fetch-only no-op rather than undefined behavior.
func (set *InstructionSet) MicroProgram(op Opcode) []MicroOp {
	inst := set.ByOpcode(op)
	if inst == nil {
		return nil
	}
	return inst.Micro
}

// Defines returns assembler equates for every mnemonic's opcode value.
func (set *InstructionSet) Defines() iter.Seq2[string, string] {
	defines := make(map[string]string, len(set.byMnemonic))
	for name, inst := range set.byMnemonic {
		defines["OP_"+strings.ToUpper(name)] = fmt.Sprintf("%#x", int(inst.Opcode))
	}
	return maps.All(defines)
}

// DefaultInstructionSet returns the original hardware's table.
func DefaultInstructionSet() *InstructionSet {
	set, err := NewInstructionSet(
		Instruction{Mnemonic: "hlt", Opcode: 0x0, Micro: []MicroOp{
			Halt(),
		}},
		Instruction{Mnemonic: "nop", Opcode: 0x1},
		Instruction{Mnemonic: "add", Opcode: 0x2, HasOperand: true, Micro: []MicroOp{
			Transfer(bus.DRIVER_IR, bus.LMA),
			Transfer(bus.DRIVER_RAM, bus.LB),
			Compute(false, bus.LA),
		}},
		Instruction{Mnemonic: "sub", Opcode: 0x3, HasOperand: true, Micro: []MicroOp{
			Transfer(bus.DRIVER_IR, bus.LMA),
			Transfer(bus.DRIVER_RAM, bus.LB),
			Compute(true, bus.LA),
		}},
		Instruction{Mnemonic: "lda", Opcode: 0x4, HasOperand: true, Micro: []MicroOp{
			Transfer(bus.DRIVER_IR, bus.LMA),
			Transfer(bus.DRIVER_RAM, bus.LA),
		}},
		Instruction{Mnemonic: "out", Opcode: 0x5, Micro: []MicroOp{
			Transfer(bus.DRIVER_A, bus.LO),
		}},
		Instruction{Mnemonic: "sta", Opcode: 0x6, HasOperand: true, Micro: []MicroOp{
			Transfer(bus.DRIVER_IR, bus.LMA),
			Transfer(bus.DRIVER_A, bus.LMD|bus.LR),
		}},
		Instruction{Mnemonic: "jmp", Opcode: 0x7, HasOperand: true, Micro: []MicroOp{
			Transfer(bus.DRIVER_IR, bus.LP),
		}},
	)
	if err != nil {
		panic(err)
	}

	return set
}
