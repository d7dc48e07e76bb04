// Package text implements the GTOa text codec: tokenizer, recursive-descent
// parser, and emitter (spec §4.3, §4.5, §6).
//
// There is no tokenizer/parser example anywhere in the retrieval pack, so
// this lexer is authored from the grammar in spec §4.3 directly rather
// than adapted from a teacher file; it follows the same error-reporting
// idiom as the rest of this module (sentinel errors from the errs package,
// wrapped with position detail) to stay consistent with the binary side.
package text

import (
	"strings"

	"github.com/gto-format/gto/errs"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent          // bareword identifier, including type/keyword names
	tokString         // quoted string literal, Text holds the unescaped value
	tokInt            // signed integer literal
	tokFloat          // floating-point literal
	tokColon          // :
	tokLParen         // (
	tokRParen         // )
	tokLBrace         // {
	tokRBrace         // }
	tokLBracket       // [
	tokRBracket       // ]
	tokEquals         // =
)

type token struct {
	Kind tokenKind
	Text string // identifier text, unescaped string contents, or the raw numeric literal
	Line int
	Col  int
}

// lexer turns GTOa source text into a token stream, tracking line/column
// for diagnostics (spec §4.3).
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}

	return l.src[l.pos]
}

func (l *lexer) peekByteAt(offset int) (byte, bool) {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0, false
	}

	return l.src[i], true
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

func (l *lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.peekByte()

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()

		case c == '#':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}

		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			startLine, startCol := l.line, l.col
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.src) {
				if l.peekByte() == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
					l.advance()
					l.advance()
					closed = true

					break
				}
				l.advance()
			}
			if !closed {
				return errs.AtLineCol(errs.ErrSyntax, startLine, startCol, "unterminated comment")
			}

		default:
			return nil
		}
	}

	return nil
}

// next returns the next token, or a tokEOF token at end of input.
func (l *lexer) next() (token, error) {
	if err := l.skipTrivia(); err != nil {
		return token{}, err
	}

	line, col := l.line, l.col

	if l.pos >= len(l.src) {
		return token{Kind: tokEOF, Line: line, Col: col}, nil
	}

	c := l.peekByte()

	switch c {
	case ':':
		l.advance()
		return token{Kind: tokColon, Line: line, Col: col}, nil
	case '(':
		l.advance()
		return token{Kind: tokLParen, Line: line, Col: col}, nil
	case ')':
		l.advance()
		return token{Kind: tokRParen, Line: line, Col: col}, nil
	case '{':
		l.advance()
		return token{Kind: tokLBrace, Line: line, Col: col}, nil
	case '}':
		l.advance()
		return token{Kind: tokRBrace, Line: line, Col: col}, nil
	case '[':
		l.advance()
		return token{Kind: tokLBracket, Line: line, Col: col}, nil
	case ']':
		l.advance()
		return token{Kind: tokRBracket, Line: line, Col: col}, nil
	case '=':
		l.advance()
		return token{Kind: tokEquals, Line: line, Col: col}, nil
	case '"':
		return l.lexString(line, col)
	}

	if isDigit(c) || c == '+' {
		return l.lexNumber(line, col)
	}

	// "-inf" is the one bareword that starts with a sign; only dispatch to
	// the numeric lexer when a digit or '.' actually follows the '-', else
	// fall through to identifier lexing (isIdentPart accepts a leading '-').
	if c == '-' {
		if next, ok := l.peekByteAt(1); ok && (isDigit(next) || next == '.') {
			return l.lexNumber(line, col)
		}

		return l.lexIdent(line, col)
	}

	if isIdentStart(c) {
		return l.lexIdent(line, col)
	}

	return token{}, errs.AtLineCol(errs.ErrSyntax, line, col, "unexpected character")
}

func (l *lexer) lexIdent(line, col int) (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
		l.advance()
	}

	return token{Kind: tokIdent, Text: l.src[start:l.pos], Line: line, Col: col}, nil
}

func (l *lexer) lexNumber(line, col int) (token, error) {
	start := l.pos
	isFloat := false

	if l.peekByte() == '+' || l.peekByte() == '-' {
		l.advance()
	}

	for l.pos < len(l.src) && isDigit(l.peekByte()) {
		l.advance()
	}

	if l.peekByte() == '.' {
		isFloat = true
		l.advance()
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
	}

	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
	}

	// Trailing bareword forms like "nan" and "inf"/"-inf" are handled by the
	// parser recognizing tokIdent "nan"/"inf" instead of reaching here.
	text := l.src[start:l.pos]
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}

	return token{Kind: kind, Text: text, Line: line, Col: col}, nil
}

func (l *lexer) lexString(line, col int) (token, error) {
	l.advance() // opening quote

	var b strings.Builder

	for {
		if l.pos >= len(l.src) {
			return token{}, errs.AtLineCol(errs.ErrUnterminatedString, line, col, "")
		}

		c := l.peekByte()
		if c == '"' {
			l.advance()

			return token{Kind: tokString, Text: b.String(), Line: line, Col: col}, nil
		}
		if c == '\n' {
			return token{}, errs.AtLineCol(errs.ErrUnterminatedString, line, col, "")
		}

		if c == '\\' {
			l.advance()
			if l.pos >= len(l.src) {
				return token{}, errs.AtLineCol(errs.ErrUnterminatedString, line, col, "")
			}

			esc := l.advance()
			switch esc {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return token{}, errs.AtLineCol(errs.ErrSyntax, line, col, "invalid escape")
			}

			continue
		}

		b.WriteByte(l.advance())
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isIdentPart matches spec §4.3's bare-name character class
// ([A-Za-z_][A-Za-z0-9_\-.]*). Colon is deliberately excluded: it is always
// its own token (object "name : protocol") and only appears inside an
// identifier when that identifier is quoted (spec §4.3: "Identifiers may
// contain ':' when quoted").
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-' || c == '.'
}
