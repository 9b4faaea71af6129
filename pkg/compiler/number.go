package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// IsBinaryLiteral reports whether lexeme carries the 0b/0B prefix.
func IsBinaryLiteral(lexeme string) bool {
	return len(lexeme) >= 2 && lexeme[0] == '0' && (lexeme[1] == 'b' || lexeme[1] == 'B')
}

// ParseNumber converts a NUMBER lexeme to its value. Binary literals have
// their prefix stripped; a bare "0b" is 0.
func ParseNumber(lexeme string) (int, error) {
	if IsBinaryLiteral(lexeme) {
		bits := lexeme[2:]
		if bits == "" {
			return 0, nil
		}
		v, err := strconv.ParseInt(bits, 2, 64)
		if err != nil {
			return 0, fmt.Errorf("binary literal %q: %w", lexeme, err)
		}
		return int(v), nil
	}
	v, err := strconv.Atoi(lexeme)
	if err != nil {
		return 0, fmt.Errorf("decimal literal %q: %w", lexeme, err)
	}
	return v, nil
}

// constantText is the CRCT operand for a NUMBER lexeme: binary literals are
// rewritten in decimal, decimal literals are kept as written.
func constantText(lexeme string) (string, error) {
	if !IsBinaryLiteral(lexeme) {
		if strings.TrimLeft(lexeme, "0123456789") != "" || lexeme == "" {
			return "", fmt.Errorf("decimal literal %q: not a number", lexeme)
		}
		return lexeme, nil
	}
	v, err := ParseNumber(lexeme)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v), nil
}
