package compiler

import (
	"unicode"

	"mepac/pkg/config"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"program": PROGRAM,
	"integer": INTEGER,
	"begin":   BEGIN,
	"end":     END,
	"read":    READ,
	"write":   WRITE,
	"for":     FOR,
	"set":     SET,
	"to":      TO,
	"of":      OF,
}

// Scanner holds all mutable state for a single scanning pass over src.
// It never fails: unknown characters come back as SYMBOL tokens and the
// parser decides whether they are acceptable.
type Scanner struct {
	src       []rune
	pos       int // index of the next rune to consume
	line      int // current 1-based source line
	maxLexeme int
}

// NewScanner returns a scanner over src. Lexemes longer than maxLexeme
// runes are cut; a non-positive maxLexeme selects the default limit.
func NewScanner(src string, maxLexeme int) *Scanner {
	if maxLexeme <= 0 {
		maxLexeme = config.DefaultMaxLexemeLength
	}
	return &Scanner{src: []rune(src), line: 1, maxLexeme: maxLexeme}
}

// Line reports the line the scanner has reached.
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peek2() rune {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

// advance consumes one rune and returns it.
func (s *Scanner) advance() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
	}
	return r
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

// skipTrivia discards whitespace, "#" line comments and "{- ... -}" block
// comments in any order.
func (s *Scanner) skipTrivia() {
	for !s.atEnd() {
		switch r := s.peek(); {
		case unicode.IsSpace(r):
			s.advance()
		case r == '#':
			s.skipLineComment()
		case r == '{' && s.peek2() == '-':
			s.advance() // {
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *Scanner) skipLineComment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
}

// skipBlockComment consumes up to and including "-}". The opening "{" must
// already be consumed, so "{-}" is a complete comment. An unterminated
// comment runs to end of input.
func (s *Scanner) skipBlockComment() {
	for !s.atEnd() {
		if s.peek() == '-' && s.peek2() == '}' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

// lexeme returns the text consumed since start, cut to the lexeme limit.
func (s *Scanner) lexeme(start int) string {
	end := s.pos
	if end-start > s.maxLexeme {
		end = start + s.maxLexeme
	}
	return string(s.src[start:end])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBit(r rune) bool {
	return r == '0' || r == '1'
}

func (s *Scanner) scanIdent() Token {
	line := s.line
	start := s.pos
	for !s.atEnd() {
		r := s.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		s.advance()
	}
	lexeme := s.lexeme(start)
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects a decimal literal or a 0b/0B binary literal. The
// binary prefix stays in the lexeme; ParseNumber strips it.
func (s *Scanner) scanNumber() Token {
	line := s.line
	start := s.pos

	if s.peek() == '0' && (s.peek2() == 'b' || s.peek2() == 'B') {
		s.advance() // 0
		s.advance() // b
		for !s.atEnd() && isBit(s.peek()) {
			s.advance()
		}
	} else {
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	return Token{Type: NUMBER, Lexeme: s.lexeme(start), Line: line}
}

// Next skips trivia and returns the next Token.
func (s *Scanner) Next() Token {
	s.skipTrivia()
	if s.atEnd() {
		return Token{Type: EOF, Lexeme: "EOF", Line: s.line}
	}

	ch := s.peek()
	line := s.line

	if unicode.IsLetter(ch) {
		return s.scanIdent()
	}
	if isDigit(ch) {
		return s.scanNumber()
	}

	s.advance()
	tok := Token{Type: SYMBOL, Lexeme: string(ch), Line: line}
	switch ch {
	case ';':
		tok.Type = SEMICOLON
	case '(':
		tok.Type = LPAREN
	case ')':
		tok.Type = RPAREN
	case '*':
		tok.Type = STAR
	case ':':
		tok.Type = COLON
	}
	return tok
}

// Lex scans src to the end and returns every token including the final EOF.
func Lex(src string, maxLexeme int) []Token {
	s := NewScanner(src, maxLexeme)
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}
