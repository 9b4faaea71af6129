package vm

import (
	"fmt"
	"strings"
)

// Opcode identifies one instruction of the stack machine.
type Opcode uint8

const (
	OpINPP Opcode = iota // program prologue
	OpAMEM               // reserve n memory cells
	OpLEIT               // read an integer and push it
	OpARMZ               // pop and store into a cell
	OpCRVL               // push the value of a cell
	OpCRCT               // push a constant
	OpIMPR               // pop and print
	OpMULT               // pop two, push product
	OpSOMA               // pop two, push sum
	OpCMEG               // pop two, push a <= b
	OpDSVF               // pop, jump if false
	OpDSVS               // jump
	OpNADA               // jump target marker
	OpPARA               // halt
)

// OperandKind describes what follows the mnemonic on an instruction line.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandInt
	OperandLabel
)

var mnemonics = [...]string{
	OpINPP: "INPP",
	OpAMEM: "AMEM",
	OpLEIT: "LEIT",
	OpARMZ: "ARMZ",
	OpCRVL: "CRVL",
	OpCRCT: "CRCT",
	OpIMPR: "IMPR",
	OpMULT: "MULT",
	OpSOMA: "SOMA",
	OpCMEG: "CMEG",
	OpDSVF: "DSVF",
	OpDSVS: "DSVS",
	OpNADA: "NADA",
	OpPARA: "PARA",
}

var operandKinds = [...]OperandKind{
	OpAMEM: OperandInt,
	OpARMZ: OperandInt,
	OpCRVL: OperandInt,
	OpCRCT: OperandInt,
	OpDSVF: OperandLabel,
	OpDSVS: OperandLabel,
	OpNADA: OperandLabel,
	OpPARA: OperandNone,
}

var byMnemonic = func() map[string]Opcode {
	m := make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		m[name] = Opcode(op)
	}
	return m
}()

func (op Opcode) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Operand reports the operand kind the instruction carries.
func (op Opcode) Operand() OperandKind {
	if int(op) < len(operandKinds) {
		return operandKinds[op]
	}
	return OperandNone
}

// Lookup maps a mnemonic (case-insensitive) to its opcode.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := byMnemonic[strings.ToUpper(mnemonic)]
	return op, ok
}

// Instruction is one decoded line of a program. For branch instructions
// Target holds the index of the NADA marker that declares Label.
type Instruction struct {
	Op     Opcode
	Arg    int
	Label  int
	Target int
	Line   int // 1-based line in the listing
}

func (in Instruction) String() string {
	switch in.Op.Operand() {
	case OperandInt:
		return fmt.Sprintf("%s %d", in.Op, in.Arg)
	case OperandLabel:
		return fmt.Sprintf("%s L%d", in.Op, in.Label)
	default:
		return in.Op.String()
	}
}
