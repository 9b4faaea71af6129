package compiler

import (
	"io"
	"log/slog"
	"strconv"

	"mepac/pkg/vm"
)

// Parser translates while it parses: every grammar rule consumes its tokens
// and writes its instructions before returning, so no tree is ever built.
// It keeps exactly one token of lookahead in tok.
//
// Grammar:
//
//	program = "program" ID ";" decls block "end" .
//	decls   = { "integer" idlist ";" } .
//	idlist  = ID { "," ID } .
//	block   = "begin" { stmt [ ";" ] } .
//	stmt    = read | write | set | for .
//	read    = "read" "(" ID ")" .
//	write   = "write" "(" operand ")" .
//	set     = "set" ID "to" operand [ "*" operand ] .
//	for     = "for" ID "of" NUMBER "to" operand ":" stmt .
//	operand = NUMBER | ID .
//
// The ";" after a statement is consumed when present but never required.
type Parser struct {
	scan   *Scanner
	tok    Token
	syms   *SymbolTable
	labels *LabelAllocator
	cg     *CodeGen
	log    *slog.Logger
}

// NewParser primes the lookahead from scan. A nil logger means slog.Default().
func NewParser(scan *Scanner, syms *SymbolTable, out io.Writer, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		scan:   scan,
		syms:   syms,
		labels: NewLabelAllocator(),
		cg:     newCodeGen(out),
		log:    logger,
	}
	p.next()
	return p
}

func (p *Parser) next() {
	p.tok = p.scan.Next()
}

func (p *Parser) syntaxError(expected string) error {
	return &Error{Err: ErrSyntax, Line: p.tok.Line, Expected: expected, Found: p.tok.Lexeme}
}

func (p *Parser) semanticError(err error, tok Token) error {
	return &Error{Err: err, Line: tok.Line, Ident: tok.Lexeme, Capacity: p.syms.Capacity()}
}

// expect checks the current token and moves past it.
func (p *Parser) expect(tt TokenType, expected string) (Token, error) {
	tok := p.tok
	if tok.Type != tt {
		return tok, p.syntaxError(expected)
	}
	p.next()
	return tok, nil
}

func (p *Parser) resolve(tok Token) (int, error) {
	addr, err := p.syms.Resolve(tok.Lexeme)
	if err != nil {
		return 0, p.semanticError(err, tok)
	}
	return addr, nil
}

// load is a pending push of an operand onto the machine stack.
type load struct {
	op  vm.Opcode
	arg string
}

// operandLoad checks tok as an operand without consuming it.
func (p *Parser) operandLoad(tok Token) (load, error) {
	switch tok.Type {
	case IDENTIFIER:
		addr, err := p.resolve(tok)
		if err != nil {
			return load{}, err
		}
		return load{op: vm.OpCRVL, arg: strconv.Itoa(addr)}, nil
	case NUMBER:
		text, err := constantText(tok.Lexeme)
		if err != nil {
			return load{}, p.syntaxError("number")
		}
		return load{op: vm.OpCRCT, arg: text}, nil
	}
	return load{}, p.syntaxError("identifier or number")
}

func (p *Parser) emitLoad(l load) {
	p.cg.opText(l.op, l.arg)
}

// operand translates NUMBER | ID into a push.
func (p *Parser) operand() error {
	l, err := p.operandLoad(p.tok)
	if err != nil {
		return err
	}
	p.emitLoad(l)
	p.next()
	return nil
}

// ParseProgram translates a whole source program and emits PARA after the
// closing "end". Anything after "end" is not read.
func (p *Parser) ParseProgram() error {
	if _, err := p.expect(PROGRAM, "program"); err != nil {
		return err
	}
	name, err := p.expect(IDENTIFIER, "identifier")
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON, ";"); err != nil {
		return err
	}
	p.log.Debug("translating program", "name", name.Lexeme)

	if err := p.declarations(); err != nil {
		return err
	}
	if err := p.block(); err != nil {
		return err
	}

	if p.tok.Type != END {
		return p.syntaxError("end")
	}
	p.cg.op(vm.OpPARA)
	return p.cg.Err()
}

func (p *Parser) declarations() error {
	for p.tok.Type == INTEGER {
		p.next()
		if err := p.identList(); err != nil {
			return err
		}
		if _, err := p.expect(SEMICOLON, ";"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) identList() error {
	for {
		tok, err := p.expect(IDENTIFIER, "identifier")
		if err != nil {
			return err
		}
		addr, err := p.syms.Declare(tok.Lexeme)
		if err != nil {
			return p.semanticError(err, tok)
		}
		p.log.Debug("declared", "ident", tok.Lexeme, "address", addr)

		if p.tok.Type != SYMBOL || p.tok.Lexeme != "," {
			return nil
		}
		p.next()
	}
}

// block emits the prologue once the declarations are closed, then the
// statement list.
func (p *Parser) block() error {
	if _, err := p.expect(BEGIN, "begin"); err != nil {
		return err
	}
	p.cg.op(vm.OpINPP)
	p.cg.opInt(vm.OpAMEM, p.syms.Len())
	return p.statements()
}

func startsStatement(tt TokenType) bool {
	switch tt {
	case READ, WRITE, SET, FOR:
		return true
	}
	return false
}

// statements stops at "end", EOF, or any token that cannot begin a
// statement; the caller reports what it expected there.
func (p *Parser) statements() error {
	for p.tok.Type != END && p.tok.Type != EOF {
		if !startsStatement(p.tok.Type) {
			return nil
		}
		if err := p.statement(); err != nil {
			return err
		}
		if p.tok.Type == SEMICOLON {
			p.next()
		}
	}
	return nil
}

func (p *Parser) statement() error {
	switch p.tok.Type {
	case READ:
		return p.readStmt()
	case WRITE:
		return p.writeStmt()
	case SET:
		return p.setStmt()
	case FOR:
		return p.forStmt()
	}
	return p.syntaxError("statement")
}

// read(ID): LEIT; ARMZ addr
func (p *Parser) readStmt() error {
	p.next()
	if _, err := p.expect(LPAREN, "("); err != nil {
		return err
	}
	tok, err := p.expect(IDENTIFIER, "identifier")
	if err != nil {
		return err
	}
	addr, err := p.resolve(tok)
	if err != nil {
		return err
	}
	p.cg.op(vm.OpLEIT)
	p.cg.opInt(vm.OpARMZ, addr)
	_, err = p.expect(RPAREN, ")")
	return err
}

// write(ID | NUMBER): CRVL addr | CRCT n; IMPR
func (p *Parser) writeStmt() error {
	p.next()
	if _, err := p.expect(LPAREN, "("); err != nil {
		return err
	}
	if err := p.operand(); err != nil {
		return err
	}
	p.cg.op(vm.OpIMPR)
	_, err := p.expect(RPAREN, ")")
	return err
}

// set ID to a [* b]: load a; [load b; MULT]; ARMZ addr
func (p *Parser) setStmt() error {
	p.next()
	target, err := p.expect(IDENTIFIER, "identifier")
	if err != nil {
		return err
	}
	addr, err := p.resolve(target)
	if err != nil {
		return err
	}
	if _, err := p.expect(TO, "to"); err != nil {
		return err
	}
	if err := p.operand(); err != nil {
		return err
	}
	if p.tok.Type == STAR {
		p.next()
		if err := p.operand(); err != nil {
			return err
		}
		p.cg.op(vm.OpMULT)
	}
	p.cg.opInt(vm.OpARMZ, addr)
	return nil
}

// forStmt lowers
//
//	for i of n to limit: body
//
// to
//
//	i := n; top: if !(i <= limit) goto exit; body; i := i + 1; goto top; exit:
//
// Both labels are allocated before the header is read.
func (p *Parser) forStmt() error {
	top := p.labels.Fresh()
	exit := p.labels.Fresh()

	p.next()
	counterTok, err := p.expect(IDENTIFIER, "identifier")
	if err != nil {
		return err
	}
	counter, err := p.resolve(counterTok)
	if err != nil {
		return err
	}
	if _, err := p.expect(OF, "of"); err != nil {
		return err
	}
	if p.tok.Type != NUMBER {
		return p.syntaxError("number")
	}
	if err := p.operand(); err != nil {
		return err
	}
	p.cg.opInt(vm.OpARMZ, counter)

	if _, err := p.expect(TO, "to"); err != nil {
		return err
	}
	limit, err := p.operandLoad(p.tok)
	if err != nil {
		return err
	}
	p.next()
	if _, err := p.expect(COLON, ":"); err != nil {
		return err
	}

	p.log.Debug("loop", "counter", counterTok.Lexeme, "top", top, "exit", exit)

	p.cg.mark(top)
	p.cg.opInt(vm.OpCRVL, counter)
	p.emitLoad(limit)
	p.cg.op(vm.OpCMEG)
	p.cg.branch(vm.OpDSVF, exit)

	if err := p.statement(); err != nil {
		return err
	}

	p.cg.opInt(vm.OpCRVL, counter)
	p.cg.opText(vm.OpCRCT, "1")
	p.cg.op(vm.OpSOMA)
	p.cg.opInt(vm.OpARMZ, counter)
	p.cg.branch(vm.OpDSVS, top)
	p.cg.mark(exit)
	return nil
}
