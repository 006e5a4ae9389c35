// Package token implements a minimal lexer for the surface language.
//
// Lexing, like parsing, is declared out of scope for the semantic core
// (spec.md §1): it is an external collaborator the core only interacts with
// through the ast package's node types. This package exists so the core can
// be exercised end-to-end from source text rather than only from
// hand-constructed ASTs — no pack repository implements a lexer for this
// surface syntax, so it is hand-written in the recursive-descent style the
// pack's own toy-language repositories (e.g. the compilers retrieved
// alongside golang-tools) use for their front ends.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tagc-lang/tagc/ast"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Keyword
	Punct
	Hash // '#' immediately preceding a tag name
)

// Token is one lexical unit plus its source span.
type Token struct {
	Kind Kind
	Text string
	Span ast.Span
}

var keywords = map[string]bool{
	"let": true, "fn": true, "return": true, "break": true, "continue": true,
	"if": true, "else": true, "while": true, "match": true, "from": true,
	"true": true, "false": true, "null": true, "void": true, "is": true,
	"type": true, "struct": true, "as": true,
}

// Lexer scans source text into a stream of Tokens.
type Lexer struct {
	src   string
	pos   int // byte offset
	line  int
	col   int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) position() ast.Position {
	return ast.Position{Line: l.line, Col: l.col, ByteOffset: l.pos}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipTrivia() {
	for {
		r, _ := l.peekRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && strings.HasPrefix(l.src[l.pos:], "//"):
			for {
				r, size := l.peekRune()
				if size == 0 || r == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token in the stream, or an EOF token once exhausted.
func (l *Lexer) Next() Token {
	l.skipTrivia()
	start := l.position()

	r, size := l.peekRune()
	if size == 0 {
		return Token{Kind: EOF, Span: ast.Span{Start: start, End: start}}
	}

	switch {
	case unicode.IsLetter(r) || r == '_':
		for {
			r, size := l.peekRune()
			if size == 0 || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
				break
			}
			l.advance()
		}
		text := l.src[start.ByteOffset:l.pos]
		kind := Ident
		if keywords[text] {
			kind = Keyword
		}
		return Token{Kind: kind, Text: text, Span: ast.Span{Start: start, End: l.position()}}

	case unicode.IsDigit(r):
		for {
			r, size := l.peekRune()
			if size == 0 || !(unicode.IsDigit(r) || r == '.' || unicode.IsLetter(r)) {
				break
			}
			l.advance()
		}
		text := l.src[start.ByteOffset:l.pos]
		return Token{Kind: Number, Text: text, Span: ast.Span{Start: start, End: l.position()}}

	case r == '"':
		l.advance()
		var sb strings.Builder
		for {
			r, size := l.peekRune()
			if size == 0 || r == '"' {
				break
			}
			if r == '\\' {
				l.advance()
				r2, _ := l.peekRune()
				sb.WriteRune(r2)
				l.advance()
				continue
			}
			sb.WriteRune(r)
			l.advance()
		}
		l.advance() // closing quote
		return Token{Kind: String, Text: sb.String(), Span: ast.Span{Start: start, End: l.position()}}

	case r == '#':
		l.advance()
		return Token{Kind: Hash, Text: "#", Span: ast.Span{Start: start, End: l.position()}}

	default:
		two := ""
		if l.pos+1 < len(l.src) {
			two = l.src[l.pos : l.pos+2]
		}
		switch two {
		case "==", "!=", "<=", ">=", "&&", "||", "->":
			l.advance()
			l.advance()
			return Token{Kind: Punct, Text: two, Span: ast.Span{Start: start, End: l.position()}}
		}
		l.advance()
		return Token{Kind: Punct, Text: string(r), Span: ast.Span{Start: start, End: l.position()}}
	}
}
