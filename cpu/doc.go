// Package cpu implements the control sequencer and assembler for the
// SAP-8 machine.
//
// The sequencer is a five-state machine (reset, load, fetch, execute,
// halt) that asserts one control word per clock cycle. Fetch is a
// fixed two-step micro-program; execute walks the micro-program the
// instruction set defines for the latched opcode. The instruction set
// is an input: the default table reproduces the original hardware's
// eight operations, and callers may supply their own.
//
// The assembler provides a small line-oriented assembly language over
// whatever instruction set it is built with, supporting labels,
// equates, data bytes, and compile-time expression evaluation.
package cpu
