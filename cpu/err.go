package cpu

import (
	"errors"

	"github.com/ezrec/sap8/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrByteSyntax      = errors.New(f(".byte syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrProgramTooLong  = errors.New(f("program exceeds memory"))
)

type ErrOpcodeRange Opcode

func (eo ErrOpcodeRange) Error() string {
	return f("opcode %#x out of range", int(eo))
}

type ErrOpcodeDuplicate Opcode

func (eo ErrOpcodeDuplicate) Error() string {
	return f("opcode %#x duplicated", int(eo))
}

type ErrMnemonicDuplicate string

func (em ErrMnemonicDuplicate) Error() string {
	return f("mnemonic %v duplicated", string(em))
}

type ErrMicroLength string

func (em ErrMicroLength) Error() string {
	return f("micro-program for %v too long", string(em))
}

type ErrMicroConflict string

func (em ErrMicroConflict) Error() string {
	return f("micro-program for %v enables multiple bus drivers", string(em))
}

type ErrMicroHalt string

func (em ErrMicroHalt) Error() string {
	return f("micro-program for %v continues past halt", string(em))
}

type ErrMnemonicUnknown string

func (em ErrMnemonicUnknown) Error() string {
	return f("mnemonic %v unknown", string(em))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOperandRange int

func (eo ErrOperandRange) Error() string {
	return f("operand %v not a 4-bit address", int(eo))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
