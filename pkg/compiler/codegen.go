package compiler

import (
	"fmt"
	"io"

	"mepac/pkg/vm"
)

// CodeGen streams stack-machine instructions to an io.Writer, one per line,
// as the parser recognises each construct. Nothing is buffered beyond what
// the writer itself buffers. The first write error sticks and suppresses
// later writes.
type CodeGen struct {
	out   io.Writer
	count int
	err   error
}

func newCodeGen(out io.Writer) *CodeGen {
	return &CodeGen{out: out}
}

func (cg *CodeGen) line(format string, args ...any) {
	if cg.err != nil {
		return
	}
	if _, err := fmt.Fprintf(cg.out, format+"\n", args...); err != nil {
		cg.err = fmt.Errorf("writing instruction: %w", err)
		return
	}
	cg.count++
}

// op emits an instruction without operand.
func (cg *CodeGen) op(op vm.Opcode) {
	cg.line("%s", op)
}

// opInt emits an instruction with a numeric operand (address or count).
func (cg *CodeGen) opInt(op vm.Opcode, n int) {
	cg.line("%s %d", op, n)
}

// opText emits an instruction whose operand text is already normalised.
func (cg *CodeGen) opText(op vm.Opcode, text string) {
	cg.line("%s %s", op, text)
}

// branch emits DSVF or DSVS referring to l.
func (cg *CodeGen) branch(op vm.Opcode, l Label) {
	cg.line("%s %s", op, l)
}

// mark emits the NADA marker declaring l at this position.
func (cg *CodeGen) mark(l Label) {
	cg.line("%s (%s)", vm.OpNADA, l)
}

// Count reports how many instruction lines were written.
func (cg *CodeGen) Count() int {
	return cg.count
}

func (cg *CodeGen) Err() error {
	return cg.err
}
