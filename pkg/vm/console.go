package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Console is the machine's integer I/O channel used by LEIT and IMPR.
type Console interface {
	ReadInt() (int, error)
	WriteInt(v int) error
}

// ErrInputExhausted is returned by LEIT when no integer is left to read.
var ErrInputExhausted = errors.New("input exhausted")

type streamConsole struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole reads whitespace separated integers from in and prints one
// value per line to out.
func NewConsole(in io.Reader, out io.Writer) Console {
	return &streamConsole{in: bufio.NewReader(in), out: out}
}

func (c *streamConsole) ReadInt() (int, error) {
	var v int
	if _, err := fmt.Fscan(c.in, &v); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrInputExhausted
		}
		return 0, fmt.Errorf("reading integer: %w", err)
	}
	return v, nil
}

func (c *streamConsole) WriteInt(v int) error {
	_, err := fmt.Fprintln(c.out, v)
	return err
}
