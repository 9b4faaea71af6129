// Package asm reads stack-machine listings back into instructions. The
// first pass records every NADA marker, the second resolves branch targets,
// so a listing only loads when each referenced label is declared exactly once.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"mepac/pkg/vm"
)

// Program is a loaded listing.
type Program struct {
	Instructions []vm.Instruction
	// Labels maps a label number to the index of its NADA marker.
	Labels map[int]int
}

type Assembler struct {
	labels map[int]int
}

type parsedLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[int]int),
	}
}

// Parse loads a listing with a fresh Assembler.
func Parse(code string) (*Program, error) {
	return NewAssembler().Parse(code)
}

func (a *Assembler) Parse(code string) (*Program, error) {
	a.labels = make(map[int]int)
	lines, err := splitLines(code)
	if err != nil {
		return nil, err
	}

	if err := a.pass1(lines); err != nil {
		return nil, err
	}

	return a.pass2(lines)
}

func splitLines(code string) ([]parsedLine, error) {
	var out []parsedLine
	for i, raw := range strings.Split(code, "\n") {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		if p.mnemonic != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *Assembler) pass1(lines []parsedLine) error {
	for index, p := range lines {
		op, ok := vm.Lookup(p.mnemonic)
		if !ok {
			return fmt.Errorf("unknown mnemonic '%s' on line %d", p.mnemonic, p.lineNo)
		}
		if op != vm.OpNADA {
			continue
		}
		if len(p.operands) != 1 {
			return fmt.Errorf("NADA expects exactly one label on line %d", p.lineNo)
		}
		label, err := parseLabel(p.operands[0], p.lineNo)
		if err != nil {
			return err
		}
		if _, exists := a.labels[label]; exists {
			return fmt.Errorf("duplicate label 'L%d' on line %d", label, p.lineNo)
		}
		a.labels[label] = index
	}
	return nil
}

func (a *Assembler) pass2(lines []parsedLine) (*Program, error) {
	program := &Program{
		Instructions: make([]vm.Instruction, 0, len(lines)),
		Labels:       a.labels,
	}

	for _, p := range lines {
		op, _ := vm.Lookup(p.mnemonic)
		in := vm.Instruction{Op: op, Line: p.lineNo}

		switch op.Operand() {
		case vm.OperandNone:
			if len(p.operands) != 0 {
				return nil, fmt.Errorf("%s takes no operand on line %d", op, p.lineNo)
			}
		case vm.OperandInt:
			if len(p.operands) != 1 {
				return nil, fmt.Errorf("%s expects exactly one operand on line %d", op, p.lineNo)
			}
			v, err := parseImmediate(p.operands[0], p.lineNo)
			if err != nil {
				return nil, err
			}
			in.Arg = v
		case vm.OperandLabel:
			if len(p.operands) != 1 {
				return nil, fmt.Errorf("%s expects exactly one label on line %d", op, p.lineNo)
			}
			label, err := parseLabel(p.operands[0], p.lineNo)
			if err != nil {
				return nil, err
			}
			target, ok := a.labels[label]
			if !ok {
				return nil, fmt.Errorf("undefined label 'L%d' on line %d", label, p.lineNo)
			}
			in.Label = label
			in.Target = target
		}

		program.Instructions = append(program.Instructions, in)
	}

	return program, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	fields := strings.Fields(line)
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}
	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func parseImmediate(token string, lineNo int) (int, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid operand '%s' on line %d", token, lineNo)
	}
	return v, nil
}

// parseLabel accepts "L3", "(L3)" and "3".
func parseLabel(token string, lineNo int) (int, error) {
	s := normalizeLabel(token)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid label '%s' on line %d", token, lineNo)
	}
	return n, nil
}

func normalizeLabel(label string) string {
	s := strings.TrimSpace(label)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	s = strings.ToUpper(s)
	return strings.TrimPrefix(s, "L")
}
