package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"mepac/pkg/asm"
	"mepac/pkg/compiler"
	"mepac/pkg/config"
	"mepac/pkg/utils"
	"mepac/pkg/vm"
)

type options struct {
	symbols bool
	run     bool
	trace   bool
}

func main() {
	configPath := flag.String("config", "", "YAML file overriding the translator limits")
	showSymbols := flag.Bool("symbols", true, "print the symbol table on stderr after a successful translation")
	runProgram := flag.Bool("run", false, "execute the translated program on the stack machine (LEIT reads stdin)")
	trace := flag.Bool("trace", false, "with -run, print the final machine state on stderr")
	verbose := flag.Bool("v", false, "debug logging on stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <source-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		atexit.Exit(2)
	}

	setupLogging(*verbose)

	opts := config.Default()
	if *configPath != "" {
		var err error
		if opts, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	fullPath, err := utils.ResolveSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open source file %q: %v\n", flag.Arg(0), err)
		atexit.Exit(1)
	}
	src, err := os.Open(fullPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open source file %q: %v\n", fullPath, err)
		atexit.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		_ = out.Flush()
		_ = src.Close()
	})

	source, err := io.ReadAll(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read source file %q: %v\n", fullPath, err)
		atexit.Exit(1)
	}

	atexit.Exit(run(string(source), opts, options{
		symbols: *showSymbols,
		run:     *runProgram,
		trace:   *trace,
	}, os.Stdin, out, os.Stderr))
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// run translates src and optionally executes it, returning the exit status.
func run(src string, cfg config.Options, o options, stdin io.Reader, stdout, stderr io.Writer) int {
	var listing bytes.Buffer
	w := stdout
	if o.run {
		w = io.MultiWriter(stdout, &listing)
	}

	res, err := compiler.Compile(src, w, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stderr, "%d lines compiled\n", res.Lines)
	if o.symbols {
		_ = res.Symbols.Dump(stderr)
	}
	if !o.run {
		return 0
	}

	prog, err := asm.Parse(listing.String())
	if err != nil {
		fmt.Fprintf(stderr, "loading listing: %v\n", err)
		return 1
	}

	if f, ok := stdout.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}

	m := vm.NewMachine(prog.Instructions, vm.NewConsole(stdin, stdout))
	m.MaxSteps = cfg.MaxSteps
	err = m.Run()
	if o.trace {
		fmt.Fprintln(stderr, m.StateTable())
	}
	if err != nil {
		fmt.Fprintf(stderr, "run failed: %v\n", err)
		return 1
	}
	return 0
}
