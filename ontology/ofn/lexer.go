package ofn

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokEquals
	tokIRI     // <...>, text without brackets
	tokName    // keyword, prefixed name or prefix declaration name
	tokBlank   // _:label
	tokLiteral // "..." with optional @lang or ^^datatype
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEquals:
		return "'='"
	case tokIRI:
		return "IRI"
	case tokName:
		return "name"
	case tokBlank:
		return "anonymous individual"
	default:
		return "literal"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int

	// Literal suffix: either a language tag or a datatype, the latter kept
	// as a name or IRI token for prefix expansion.
	lang     string
	datatype *token
}

// SyntaxError reports malformed input with its 1-based position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// tokenize splits the whole input into tokens, ending with tokEOF.
func tokenize(src string) ([]token, error) {
	lx := newLexer(src)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.src) {
		r := lx.peek()
		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case r == '#':
			for lx.pos < len(lx.src) && lx.peek() != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func (lx *lexer) next() (token, error) {
	lx.skipSpaceAndComments()
	line, col := lx.line, lx.col
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	switch r := lx.peek(); r {
	case '(':
		lx.advance()
		return token{kind: tokLParen, text: "(", line: line, col: col}, nil
	case ')':
		lx.advance()
		return token{kind: tokRParen, text: ")", line: line, col: col}, nil
	case '=':
		lx.advance()
		return token{kind: tokEquals, text: "=", line: line, col: col}, nil
	case '<':
		return lx.lexIRI(line, col)
	case '"':
		return lx.lexLiteral(line, col)
	}

	text := lx.lexWord()
	if text == "" {
		return token{}, lx.errorf(line, col, "unexpected character %q", lx.peek())
	}
	if strings.HasPrefix(text, "_:") {
		return token{kind: tokBlank, text: text, line: line, col: col}, nil
	}
	return token{kind: tokName, text: text, line: line, col: col}, nil
}

func (lx *lexer) lexIRI(line, col int) (token, error) {
	lx.advance() // <
	start := lx.pos
	for {
		if lx.pos >= len(lx.src) {
			return token{}, lx.errorf(line, col, "unterminated IRI")
		}
		r := lx.peek()
		if r == '>' {
			break
		}
		if r == '\n' || r == ' ' {
			return token{}, lx.errorf(line, col, "whitespace in IRI")
		}
		lx.advance()
	}
	text := lx.src[start:lx.pos]
	lx.advance() // >
	return token{kind: tokIRI, text: text, line: line, col: col}, nil
}

func (lx *lexer) lexLiteral(line, col int) (token, error) {
	start := lx.pos
	lx.advance() // opening quote
	for {
		if lx.pos >= len(lx.src) {
			return token{}, lx.errorf(line, col, "unterminated literal")
		}
		r := lx.advance()
		if r == '\\' {
			if lx.pos >= len(lx.src) {
				return token{}, lx.errorf(line, col, "unterminated literal")
			}
			lx.advance()
			continue
		}
		if r == '"' {
			break
		}
	}
	tok := token{kind: tokLiteral, text: lx.src[start:lx.pos], line: line, col: col}

	switch {
	case lx.peek() == '@':
		lx.advance()
		tok.lang = lx.lexWord()
		if tok.lang == "" {
			return token{}, lx.errorf(lx.line, lx.col, "missing language tag")
		}
	case strings.HasPrefix(lx.src[lx.pos:], "^^"):
		lx.advance()
		lx.advance()
		dline, dcol := lx.line, lx.col
		var dt token
		if lx.peek() == '<' {
			var err error
			if dt, err = lx.lexIRI(dline, dcol); err != nil {
				return token{}, err
			}
		} else {
			word := lx.lexWord()
			if word == "" {
				return token{}, lx.errorf(dline, dcol, "missing datatype")
			}
			dt = token{kind: tokName, text: word, line: dline, col: dcol}
		}
		tok.datatype = &dt
	}
	return tok, nil
}

// lexWord consumes a run of characters that may form a keyword, prefixed
// name or blank node label.
func (lx *lexer) lexWord() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r := lx.peek()
		if unicode.IsSpace(r) || strings.ContainsRune("()<>\"=#", r) {
			break
		}
		lx.advance()
	}
	return lx.src[start:lx.pos]
}
