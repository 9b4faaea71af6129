package main

import (
	"fmt"
	"log"
	"os"

	"mepac/pkg/asm"
	"mepac/pkg/utils"
	"mepac/pkg/vm"
)

// mepavm runs a saved instruction listing on the stack machine, reading
// LEIT values from stdin.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <listing-file> [--trace]\n", os.Args[0])
		os.Exit(2)
	}
	filename := os.Args[1]
	showState := false
	for _, arg := range os.Args[2:] {
		if arg == "--trace" {
			showState = true
		}
	}

	fullPath, err := utils.ResolveSource(filename)
	if err != nil {
		log.Fatalf("Failed to locate listing: %v", err)
	}
	text, err := os.ReadFile(fullPath)
	if err != nil {
		log.Fatalf("Failed to read listing: %v", err)
	}

	prog, err := asm.Parse(string(text))
	if err != nil {
		log.Fatalf("Failed to load listing: %v", err)
	}

	m := vm.NewMachine(prog.Instructions, vm.NewConsole(os.Stdin, os.Stdout))
	runErr := m.Run()

	if showState {
		fmt.Fprintln(os.Stderr, m.StateTable())
	}
	if runErr != nil {
		log.Fatalf("Run failed: %v", runErr)
	}
}
