package compiler

import "fmt"

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input, returned forever once reached

	// Literals
	IDENTIFIER // variable / program name
	NUMBER     // decimal digits or 0b/0B binary literal, prefix kept

	// Keywords
	PROGRAM // "program"
	INTEGER // "integer"
	BEGIN   // "begin"
	END     // "end"
	READ    // "read"
	WRITE   // "write"
	FOR     // "for"
	SET     // "set"
	TO      // "to"
	OF      // "of"

	// Punctuation
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	STAR      // *
	COLON     // :

	SYMBOL // any other single character, e.g. ","
	ERROR  // reserved; the scanner degrades to SYMBOL instead
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	PROGRAM:    "PROGRAM",
	INTEGER:    "INTEGER",
	BEGIN:      "BEGIN",
	END:        "END",
	READ:       "READ",
	WRITE:      "WRITE",
	FOR:        "FOR",
	SET:        "SET",
	TO:         "TO",
	OF:         "OF",
	SEMICOLON:  "SEMICOLON",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	STAR:       "STAR",
	COLON:      "COLON",
	SYMBOL:     "SYMBOL",
	ERROR:      "ERROR",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Scanner.
type Token struct {
	Type   TokenType
	Lexeme string // source text, cut to the scanner's lexeme limit
	Line   int    // 1-based line of the first character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
