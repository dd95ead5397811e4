package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemblerParse(t *testing.T) {
	table := [](struct {
		Name   string
		Source string
		Binary []byte
		Err    error
	}){
		{
			Name:   "empty",
			Source: "",
			Binary: nil,
		},
		{
			Name: "plain",
			Source: `
				lda 14
				add 15
				out
				hlt
			`,
			Binary: []byte{0x4e, 0x2f, 0x50, 0x00},
		},
		{
			Name: "comments",
			Source: `
				; leading comment
				nop ; trailing comment
				hlt
			`,
			Binary: []byte{0x10, 0x00},
		},
		{
			Name: "labels",
			Source: `
				start: out
				jmp start
			`,
			Binary: []byte{0x50, 0x70},
		},
		{
			Name: "forward label",
			Source: `
				jmp done
				nop
				done: hlt
			`,
			Binary: []byte{0x72, 0x10, 0x00},
		},
		{
			Name: "equates",
			Source: `
				.equ VALUE 15
				lda VALUE
				hlt
			`,
			Binary: []byte{0x4f, 0x00},
		},
		{
			Name: "opcode defines",
			Source: `
				.byte OP_JMP
			`,
			Binary: []byte{0x07},
		},
		{
			Name: "bytes",
			Source: `
				hlt
				.byte 0x05 0x03 -1
			`,
			Binary: []byte{0x00, 0x05, 0x03, 0xff},
		},
		{
			Name: "expressions",
			Source: `
				lda $(7 + 8)
				.byte $(RAM_SIZE - 1)
			`,
			Binary: []byte{0x4f, 0x0f},
		},
		{
			Name: "equate in expression",
			Source: `
				.equ BASE 12
				lda $(BASE + 2)
			`,
			Binary: []byte{0x4e},
		},
		{
			Name:   "equate syntax",
			Source: ".equ ONLY",
			Err:    ErrEquateSyntax,
		},
		{
			Name: "equate duplicated",
			Source: `
				.equ TWICE 1
				.equ TWICE 2
			`,
			Err: ErrEquateDuplicate,
		},
		{
			Name: "label duplicated",
			Source: `
				here: nop
				here: nop
			`,
			Err: ErrLabelDuplicate,
		},
		{
			Name:   "label missing",
			Source: "jmp nowhere",
			Err:    ErrLabelMissing("nowhere"),
		},
		{
			Name:   "mnemonic unknown",
			Source: "mul 3",
			Err:    ErrMnemonicUnknown("mul"),
		},
		{
			Name:   "operand missing",
			Source: "lda",
			Err:    ErrOperandMissing,
		},
		{
			Name:   "operand extra",
			Source: "out 5",
			Err:    ErrOperandExtra,
		},
		{
			Name:   "operand range",
			Source: "lda 16",
			Err:    ErrOperandRange(16),
		},
		{
			Name:   "byte range",
			Source: ".byte 256",
			Err:    ErrByteSyntax,
		},
		{
			Name:   "bad number",
			Source: ".byte xyz",
			Err:    ErrParseNumber("xyz"),
		},
		{
			Name:   "bad expression",
			Source: `lda $("text")`,
			Err:    ErrParseExpression(`"text"`),
		},
		{
			Name: "too long",
			Source: `
				.byte 0 1 2 3 4 5 6 7
				.byte 8 9 10 11 12 13 14 15
				nop
			`,
			Err: ErrProgramTooLong,
		},
	}

	for _, testcase := range table {
		t.Run(testcase.Name, func(t *testing.T) {
			assert := assert.New(t)

			asm := Assembler{}
			prog, err := asm.Parse(strings.NewReader(testcase.Source))
			if testcase.Err != nil {
				assert.ErrorIs(err, testcase.Err)
				var syntax *ErrSyntax
				assert.ErrorAs(err, &syntax)
				return
			}

			if assert.NoError(err) {
				assert.Equal(testcase.Binary, prog.Binary())
			}
		})
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := Assembler{}
	asm.Predefine("ANSWER", "13")

	prog, err := asm.Parse(strings.NewReader("lda ANSWER"))
	if assert.NoError(err) {
		assert.Equal([]byte{0x4d}, prog.Binary())
	}
}

func TestAssemblerImage(t *testing.T) {
	assert := assert.New(t)

	asm := Assembler{}
	prog, err := asm.Parse(strings.NewReader("out\nhlt"))
	if !assert.NoError(err) {
		return
	}

	image := prog.Image()
	assert.Equal(byte(0x50), image[0])
	assert.Equal(byte(0x00), image[1])
	for addr := 2; addr < len(image); addr++ {
		assert.Equal(byte(0), image[addr])
	}
}

func TestAssemblerSource(t *testing.T) {
	assert := assert.New(t)

	asm := Assembler{}
	prog, err := asm.Parse(strings.NewReader("nop\n.byte 1 2\nhlt"))
	if !assert.NoError(err) {
		return
	}

	line := prog.Source(2)
	if assert.NotNil(line) {
		assert.Equal(2, line.LineNo)
		assert.Equal(1, line.Addr)
	}
	assert.Nil(prog.Source(15))
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := Assembler{}

	prog, err := asm.Parse(strings.NewReader("loop: jmp loop"))
	if assert.NoError(err) {
		assert.Equal([]byte{0x70}, prog.Binary())
	}

	// A second parse starts clean: same label, no duplicate error.
	prog, err = asm.Parse(strings.NewReader("nop\nloop: jmp loop"))
	if assert.NoError(err) {
		assert.Equal([]byte{0x10, 0x71}, prog.Binary())
	}
}
