// Package vm implements the stack machine that executes the translator's
// output: an evaluation stack plus a flat array of addressed memory cells.
package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultMaxSteps bounds Run when no explicit limit is configured.
const DefaultMaxSteps = 1_000_000

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrBadAddress     = errors.New("memory address out of range")
	ErrStepLimit      = errors.New("step limit exceeded")
	ErrNoHalt         = errors.New("program ended without PARA")
)

// Machine holds the full execution state of one program run.
type Machine struct {
	Program []Instruction
	Memory  []int
	Stack   []int
	PC      int

	Halted   bool
	Steps    int
	MaxSteps int

	Console Console
}

// NewMachine prepares program for execution. console may be nil if the
// program performs no I/O.
func NewMachine(program []Instruction, console Console) *Machine {
	return &Machine{
		Program:  program,
		MaxSteps: DefaultMaxSteps,
		Console:  console,
	}
}

func (m *Machine) push(v int) {
	m.Stack = append(m.Stack, v)
}

func (m *Machine) pop() (int, error) {
	if len(m.Stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}

func (m *Machine) pop2() (a, b int, err error) {
	if b, err = m.pop(); err != nil {
		return 0, 0, err
	}
	if a, err = m.pop(); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (m *Machine) cell(addr int) (*int, error) {
	if addr < 0 || addr >= len(m.Memory) {
		return nil, fmt.Errorf("%w: %d (have %d cells)", ErrBadAddress, addr, len(m.Memory))
	}
	return &m.Memory[addr], nil
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	if m.PC < 0 || m.PC >= len(m.Program) {
		return ErrNoHalt
	}

	in := m.Program[m.PC]
	m.PC++
	m.Steps++

	if err := m.exec(in); err != nil {
		return fmt.Errorf("pc %d (%s, line %d): %w", m.PC-1, in, in.Line, err)
	}
	return nil
}

func (m *Machine) exec(in Instruction) error {
	switch in.Op {
	case OpINPP:
		m.Stack = m.Stack[:0]
		m.Memory = m.Memory[:0]
	case OpAMEM:
		if in.Arg < 0 {
			return fmt.Errorf("negative AMEM size %d", in.Arg)
		}
		m.Memory = append(m.Memory, make([]int, in.Arg)...)
	case OpLEIT:
		if m.Console == nil {
			return ErrInputExhausted
		}
		v, err := m.Console.ReadInt()
		if err != nil {
			return err
		}
		m.push(v)
	case OpARMZ:
		c, err := m.cell(in.Arg)
		if err != nil {
			return err
		}
		v, err := m.pop()
		if err != nil {
			return err
		}
		*c = v
	case OpCRVL:
		c, err := m.cell(in.Arg)
		if err != nil {
			return err
		}
		m.push(*c)
	case OpCRCT:
		m.push(in.Arg)
	case OpIMPR:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if m.Console != nil {
			if err := m.Console.WriteInt(v); err != nil {
				return err
			}
		}
	case OpMULT:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		m.push(a * b)
	case OpSOMA:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		m.push(a + b)
	case OpCMEG:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		if a <= b {
			m.push(1)
		} else {
			m.push(0)
		}
	case OpDSVF:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v == 0 {
			m.PC = in.Target
		}
	case OpDSVS:
		m.PC = in.Target
	case OpNADA:
	case OpPARA:
		m.Halted = true
	default:
		return fmt.Errorf("unknown opcode %d", in.Op)
	}
	return nil
}

// Run steps the machine until PARA, an error, or the step limit.
func (m *Machine) Run() error {
	for !m.Halted {
		if m.MaxSteps > 0 && m.Steps >= m.MaxSteps {
			return fmt.Errorf("%w (%d)", ErrStepLimit, m.MaxSteps)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// StateTable renders registers, stack and memory for diagnostics.
func (m *Machine) StateTable() string {
	t := table.NewWriter()
	t.SetTitle("Machine state")
	t.AppendHeader(table.Row{"Item", "Value"})
	t.AppendRow(table.Row{"PC", m.PC})
	t.AppendRow(table.Row{"Steps", m.Steps})
	t.AppendRow(table.Row{"Halted", m.Halted})
	t.AppendRow(table.Row{"Stack", formatInts(m.Stack)})
	t.AppendSeparator()
	for addr, v := range m.Memory {
		t.AppendRow(table.Row{fmt.Sprintf("M[%d]", addr), v})
	}
	return t.Render()
}

func formatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
