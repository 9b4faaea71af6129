package compiler

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Symbol is a declared variable and the memory cell it lives in.
type Symbol struct {
	Name    string
	Address int
}

// SymbolTable maps identifiers to memory addresses. The language has a
// single flat scope; addresses are handed out from 0 in declaration order
// and never reused. Entries are only added while declarations are parsed.
type SymbolTable struct {
	index    map[string]int // name -> position in symbols
	symbols  []Symbol
	capacity int
}

// NewSymbolTable returns an empty table holding at most capacity entries.
// A non-positive capacity means unbounded.
func NewSymbolTable(capacity int) *SymbolTable {
	return &SymbolTable{
		index:    make(map[string]int),
		capacity: capacity,
	}
}

// Declare inserts name at the next free address.
func (s *SymbolTable) Declare(name string) (int, error) {
	if _, ok := s.index[name]; ok {
		return 0, ErrAlreadyDeclared
	}
	if s.capacity > 0 && len(s.symbols) >= s.capacity {
		return 0, ErrSymbolTableFull
	}

	sym := Symbol{Name: name, Address: len(s.symbols)}
	s.index[name] = len(s.symbols)
	s.symbols = append(s.symbols, sym)
	return sym.Address, nil
}

// Resolve returns the address of a declared name.
func (s *SymbolTable) Resolve(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, ErrUndeclared
	}
	return s.symbols[i].Address, nil
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := s.index[name]
	if !ok {
		return Symbol{}, false
	}
	return s.symbols[i], true
}

func (s *SymbolTable) Len() int {
	return len(s.symbols)
}

func (s *SymbolTable) Capacity() int {
	return s.capacity
}

// Symbols returns the entries in declaration order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Dump writes the table as a diagnostic listing.
func (s *SymbolTable) Dump(w io.Writer) error {
	_, err := fmt.Fprintln(w, s.String())
	return err
}

func (s *SymbolTable) String() string {
	t := table.NewWriter()
	t.SetTitle("Symbol table")
	t.AppendHeader(table.Row{"Identifier", "Address"})
	for _, sym := range s.symbols {
		t.AppendRow(table.Row{sym.Name, sym.Address})
	}
	t.AppendFooter(table.Row{"Total", len(s.symbols)})
	return t.Render()
}
