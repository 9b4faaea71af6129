package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mepac/pkg/asm"
	"mepac/pkg/compiler"
	"mepac/pkg/config"
	"mepac/pkg/vm"
)

// TestPrograms translates every testdata/*.mp, compares the listing with the
// .mepa file next to it, then runs it with .in as input and compares the
// printed values with .out.
func TestPrograms(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("testdata", "*.mp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) == 0 {
		t.Fatal("no test programs found")
	}

	for _, srcPath := range sources {
		name := strings.TrimSuffix(filepath.Base(srcPath), ".mp")
		t.Run(name, func(t *testing.T) {
			base := strings.TrimSuffix(srcPath, ".mp")
			src := readFile(t, srcPath)

			// 1. Translate
			var listing bytes.Buffer
			if _, err := compiler.Compile(src, &listing, config.Default()); err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if want := readFile(t, base+".mepa"); listing.String() != want {
				t.Fatalf("listing mismatch\n got:\n%s\nwant:\n%s", listing.String(), want)
			}

			// 2. Load
			prog, err := asm.Parse(listing.String())
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			// 3. Run
			var out bytes.Buffer
			m := vm.NewMachine(prog.Instructions, vm.NewConsole(strings.NewReader(readOptional(t, base+".in")), &out))
			if err := m.Run(); err != nil {
				t.Fatalf("Run failed: %v\n%s", err, m.StateTable())
			}
			if want := readFile(t, base+".out"); out.String() != want {
				t.Errorf("output\n got: %q\nwant: %q", out.String(), want)
			}
		})
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func readOptional(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
