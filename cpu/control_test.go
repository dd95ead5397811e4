package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sap8/bus"
)

// cycle runs one full clock cycle and returns the control word the
// sequencer asserted during it.
func cycle(seq *Sequencer, in Inputs) (w bus.ControlWord) {
	w = seq.Eval(in)
	seq.Advance(in)
	return
}

// release takes the sequencer out of reset into run mode.
func release(seq *Sequencer) {
	cycle(seq, Inputs{Reset: true})
	cycle(seq, Inputs{})
}

func TestSequencerReset(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequencer(DefaultInstructionSet())

	// Under reset: no control lines, state held at reset.
	for n := 0; n < 3; n++ {
		assert.Equal(bus.ControlWord(0), cycle(seq, Inputs{Reset: true}))
		assert.Equal(SEQ_RESET, seq.State())
		assert.False(seq.HaltFlag())
	}

	// Release without a programming request goes to fetch.
	cycle(seq, Inputs{})
	assert.Equal(SEQ_FETCH, seq.State())
}

func TestSequencerFetch(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequencer(DefaultInstructionSet())
	release(seq)

	assert.Equal(bus.EP|bus.LMA, cycle(seq, Inputs{}))
	assert.Equal(bus.CE|bus.LI|bus.CP, cycle(seq, Inputs{}))
	assert.Equal(SEQ_EXECUTE, seq.State())
}

// TestSequencerExecuteMicroSteps checks the execute-phase control
// word sequence for every default opcode, per micro-step.
func TestSequencerExecuteMicroSteps(t *testing.T) {
	table := [](struct {
		Name   string
		Opcode Opcode
		Words  []bus.ControlWord
		Halts  bool
	}){
		{Name: "hlt", Opcode: 0x0, Words: []bus.ControlWord{0}, Halts: true},
		{Name: "nop", Opcode: 0x1, Words: []bus.ControlWord{0}},
		{Name: "add", Opcode: 0x2, Words: []bus.ControlWord{
			bus.EI | bus.LMA,
			bus.CE | bus.LB,
			bus.EU | bus.LA,
		}},
		{Name: "sub", Opcode: 0x3, Words: []bus.ControlWord{
			bus.EI | bus.LMA,
			bus.CE | bus.LB,
			bus.EU | bus.SU | bus.LA,
		}},
		{Name: "lda", Opcode: 0x4, Words: []bus.ControlWord{
			bus.EI | bus.LMA,
			bus.CE | bus.LA,
		}},
		{Name: "out", Opcode: 0x5, Words: []bus.ControlWord{
			bus.EA | bus.LO,
		}},
		{Name: "sta", Opcode: 0x6, Words: []bus.ControlWord{
			bus.EI | bus.LMA,
			bus.EA | bus.LMD | bus.LR,
		}},
		{Name: "jmp", Opcode: 0x7, Words: []bus.ControlWord{
			bus.EI | bus.LP,
		}},
		{Name: "undefined", Opcode: 0xf, Words: []bus.ControlWord{0}},
	}

	for _, testcase := range table {
		t.Run(testcase.Name, func(t *testing.T) {
			assert := assert.New(t)

			seq := NewSequencer(DefaultInstructionSet())
			release(seq)

			in := Inputs{Opcode: testcase.Opcode}

			// Fetch is identical for every opcode.
			assert.Equal(bus.EP|bus.LMA, cycle(seq, in))
			assert.Equal(bus.CE|bus.LI|bus.CP, cycle(seq, in))

			for step, want := range testcase.Words {
				assert.Equal(SEQ_EXECUTE, seq.State())
				assert.Equal(step, seq.Step())
				assert.Equal(want, cycle(seq, in), "step %v", step)
			}

			if testcase.Halts {
				assert.Equal(SEQ_HALT, seq.State())
				assert.True(seq.HaltFlag())
				// Terminal: no lines, no progress, until reset.
				assert.Equal(bus.ControlWord(0), cycle(seq, in))
				assert.Equal(SEQ_HALT, seq.State())
				cycle(seq, Inputs{Reset: true})
				assert.False(seq.HaltFlag())
				assert.Equal(SEQ_RESET, seq.State())
			} else {
				assert.Equal(SEQ_FETCH, seq.State())
				assert.Equal(0, seq.Step())
				assert.False(seq.HaltFlag())
			}
		})
	}
}

// Every control word the sequencer can emit enables at most one bus
// driver: run every opcode through a full instruction and count.
func TestSequencerSingleDriver(t *testing.T) {
	assert := assert.New(t)

	for op := Opcode(0); op < OPCODE_COUNT; op++ {
		seq := NewSequencer(DefaultInstructionSet())
		release(seq)

		in := Inputs{Opcode: op}
		for n := 0; n < 8; n++ {
			w := cycle(seq, in)
			assert.LessOrEqual(w.Drivers(), 1, "opcode %x cycle %v", byte(op), n)
		}
	}
}

func TestSequencerLoadHandshake(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequencer(DefaultInstructionSet())

	cycle(seq, Inputs{Reset: true, Programming: true})
	cycle(seq, Inputs{Programming: true})
	assert.Equal(SEQ_LOAD, seq.State())

	for n := 0; n < 16; n++ {
		// Ready asserts; the presented byte is written this cycle.
		assert.True(seq.Loader().Ready, "byte %v", n)
		assert.Equal(byte(n), seq.Loader().Addr)
		assert.True(seq.Loading())
		assert.Equal(bus.EN|bus.LR, cycle(seq, Inputs{Programming: true}))

		if n < 15 {
			assert.False(seq.Loader().Done)
			// One recovery cycle between bytes.
			assert.False(seq.Loader().Ready)
			assert.Equal(bus.ControlWord(0), cycle(seq, Inputs{Programming: true}))
		}
	}

	// Done asserts with the sixteenth write.
	assert.True(seq.Loader().Done)

	// Releasing the programming request enters fetch with the load
	// address cleared.
	cycle(seq, Inputs{})
	assert.Equal(SEQ_FETCH, seq.State())
	assert.Equal(byte(0), seq.Loader().Addr)
}

func TestSequencerResetIdempotent(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequencer(DefaultInstructionSet())
	release(seq)
	cycle(seq, Inputs{Opcode: 0x1})

	once := NewSequencer(DefaultInstructionSet())
	release(once)
	cycle(once, Inputs{Opcode: 0x1})

	cycle(seq, Inputs{Reset: true})
	cycle(seq, Inputs{Reset: true})
	cycle(once, Inputs{Reset: true})

	assert.Equal(once.State(), seq.State())
	assert.Equal(once.Step(), seq.Step())
	assert.Equal(once.Loader(), seq.Loader())
	assert.Equal(once.HaltFlag(), seq.HaltFlag())
}
