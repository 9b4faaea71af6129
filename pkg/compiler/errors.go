package compiler

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every translation failure is fatal.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrAlreadyDeclared = errors.New("identifier already declared")
	ErrUndeclared      = errors.New("identifier not declared")
	ErrSymbolTableFull = errors.New("symbol table full")
)

// Error is the single failure the parser reports before it stops.
type Error struct {
	Err      error // one of the sentinels above
	Line     int
	Expected string // syntax errors: the construct the grammar wanted
	Found    string // syntax errors: the lexeme actually seen
	Ident    string // semantic errors: the offending identifier
	Capacity int    // ErrSymbolTableFull: the configured bound
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrSyntax):
		return fmt.Sprintf("%d: syntax error, expected [%s] found [%s]", e.Line, e.Expected, e.Found)
	case errors.Is(e.Err, ErrAlreadyDeclared):
		return fmt.Sprintf("%d: semantic error, identifier [%s] already declared", e.Line, e.Ident)
	case errors.Is(e.Err, ErrUndeclared):
		return fmt.Sprintf("%d: semantic error, identifier [%s] not declared", e.Line, e.Ident)
	case errors.Is(e.Err, ErrSymbolTableFull):
		return fmt.Sprintf("%d: semantic error, symbol table full (capacity %d) declaring [%s]", e.Line, e.Capacity, e.Ident)
	}
	return fmt.Sprintf("%d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSemantic reports whether err is a symbol resolution failure.
func IsSemantic(err error) bool {
	return errors.Is(err, ErrAlreadyDeclared) ||
		errors.Is(err, ErrUndeclared) ||
		errors.Is(err, ErrSymbolTableFull)
}
