// Package config holds the tunable limits of a translation run and loads
// them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxLexemeLength matches a 16-byte lexeme buffer minus its terminator.
	DefaultMaxLexemeLength = 15
	DefaultSymbolCapacity  = 100
	DefaultMaxSteps        = 1_000_000
)

// Options bounds the scanner, the symbol table and the stack machine.
type Options struct {
	MaxLexemeLength int `yaml:"max_lexeme_length"`
	SymbolCapacity  int `yaml:"symbol_capacity"`
	MaxSteps        int `yaml:"max_steps"`
}

// Default returns the limits used when no configuration file is given.
func Default() Options {
	return Options{
		MaxLexemeLength: DefaultMaxLexemeLength,
		SymbolCapacity:  DefaultSymbolCapacity,
		MaxSteps:        DefaultMaxSteps,
	}
}

// Load reads a YAML file. Keys missing from the file keep their defaults.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	opts, err := Parse(data)
	if err != nil {
		return Options{}, fmt.Errorf("config %q: %w", path, err)
	}
	return opts, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Options, error) {
	opts := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, err
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o Options) Validate() error {
	if o.MaxLexemeLength < 1 {
		return fmt.Errorf("max_lexeme_length must be positive, got %d", o.MaxLexemeLength)
	}
	if o.SymbolCapacity < 1 {
		return fmt.Errorf("symbol_capacity must be positive, got %d", o.SymbolCapacity)
	}
	if o.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", o.MaxSteps)
	}
	return nil
}
