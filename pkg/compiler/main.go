// Package compiler is a one-pass translator from a small Pascal-like
// teaching language to stack-machine instructions.
//
// Pipeline: source → Scanner → Parser (symbol table + labels) → CodeGen → listing text
//
// Scanning, parsing, symbol resolution and emission are interleaved; each
// grammar rule writes its instructions as soon as it is recognised.
package compiler
