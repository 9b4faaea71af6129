package compiler

import (
	"io"
	"log/slog"

	"mepac/pkg/config"
)

// Result describes a translation run. It is returned even when the run
// fails, reflecting how far the parser got.
type Result struct {
	Lines        int // source lines scanned
	Instructions int // instruction lines written
	Labels       int // labels issued
	Symbols      *SymbolTable
}

// Compile translates src and streams the instruction listing to out. The
// first syntax or semantic error stops the run; whatever was written before
// it stays written.
func Compile(src string, out io.Writer, opts config.Options) (*Result, error) {
	return CompileWithLogger(src, out, opts, slog.Default())
}

func CompileWithLogger(src string, out io.Writer, opts config.Options, logger *slog.Logger) (*Result, error) {
	scan := NewScanner(src, opts.MaxLexemeLength)
	syms := NewSymbolTable(opts.SymbolCapacity)
	p := NewParser(scan, syms, out, logger)

	err := p.ParseProgram()

	res := &Result{
		Lines:        scan.Line(),
		Instructions: p.cg.Count(),
		Labels:       p.labels.Issued(),
		Symbols:      syms,
	}
	if err != nil {
		p.log.Debug("translation failed", "line", p.tok.Line, "err", err)
		return res, err
	}
	p.log.Debug("translation finished",
		"lines", res.Lines,
		"instructions", res.Instructions,
		"symbols", syms.Len(),
		"labels", res.Labels,
	)
	return res, nil
}
