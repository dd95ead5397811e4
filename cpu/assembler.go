package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sap8/datapath"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0",
	"RAM_SIZE": fmt.Sprintf("%v", datapath.RAM_SIZE),
}

// Assembler is a single pass assembler over an instruction set.
type Assembler struct {
	Verbose bool            // If set, verbosely logs the assembler actions.
	Set     *InstructionSet // Instruction set to encode against.
	Lines   []Line          // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to byte addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		val, _err := asm.valueOf(str)
		if _err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(val)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine expands a source line into words: $() evaluation, equate
// substitution, label definitions, and .equ handling.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, datapath.RAM_SIZE)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// parseWords encodes a line of words into emitted bytes.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	line := Line{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Words:  slices.Clone(words),
	}

	// .byte VALUE...
	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrByteSyntax
			return
		}
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if value < -128 || value > 255 {
				err = ErrByteSyntax
				return
			}
			line.Bytes = append(line.Bytes, byte(value))
		}
		asm.Lines = append(asm.Lines, line)
		return
	}

	inst := asm.Set.ByMnemonic(words[0])
	if inst == nil {
		err = ErrMnemonicUnknown(words[0])
		return
	}

	encoded := byte(inst.Opcode) << 4
	args := words[1:]

	if !inst.HasOperand {
		if len(args) != 0 {
			err = ErrOperandExtra
			return
		}
	} else {
		if len(args) == 0 {
			err = ErrOperandMissing
			return
		}
		if len(args) > 1 {
			err = ErrOperandExtra
			return
		}

		value, _err := asm.valueOf(args[0])
		if _err != nil {
			// Not a number: defer to the label link pass.
			line.LinkLabel = args[0]
		} else {
			if value < 0 || value >= datapath.RAM_SIZE {
				err = ErrOperandRange(value)
				return
			}
			encoded |= byte(value)
		}
	}

	line.Bytes = []byte{encoded}
	asm.Lines = append(asm.Lines, line)
	return
}

// currentAddr gets the next emit address.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Set == nil {
		asm.Set = DefaultInstructionSet()
	}

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for name, value := range asm.Set.Defines() {
		asm.Equate[name] = value
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of jump labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[ln.LinkLabel]
		if !ok {
			err = ErrLabelMissing(ln.LinkLabel)
			return
		}
		ln.Bytes[0] |= byte(addr) & 0x0f
	}

	if asm.currentAddr() > datapath.RAM_SIZE {
		err = ErrProgramTooLong
		return
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
