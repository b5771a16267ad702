package jsonlite

import (
	"fmt"
	"strconv"
)

// SyntaxError reports where decoding failed.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid input at offset %d: %s", e.Offset, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokInt
	tokTrue
	tokFalse
	tokNull
)

type token struct {
	kind   tokenKind
	str    string
	num    int64
	offset int
}

type lexer struct {
	in  string
	pos int
}

func (l *lexer) errf(offset int, format string, args ...interface{}) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.in) {
		switch l.in[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.in) {
		return token{kind: tokEOF, offset: start}, nil
	}
	c := l.in[l.pos]
	switch c {
	case '{':
		l.pos++
		return token{kind: tokLBrace, offset: start}, nil
	case '}':
		l.pos++
		return token{kind: tokRBrace, offset: start}, nil
	case '[':
		l.pos++
		return token{kind: tokLBracket, offset: start}, nil
	case ']':
		l.pos++
		return token{kind: tokRBracket, offset: start}, nil
	case ':':
		l.pos++
		return token{kind: tokColon, offset: start}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, offset: start}, nil
	case '"':
		s, err := l.scanString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, str: s, offset: start}, nil
	case 't':
		if err := l.scanKeyword("true"); err != nil {
			return token{}, err
		}
		return token{kind: tokTrue, offset: start}, nil
	case 'f':
		if err := l.scanKeyword("false"); err != nil {
			return token{}, err
		}
		return token{kind: tokFalse, offset: start}, nil
	case 'n':
		if err := l.scanKeyword("null"); err != nil {
			return token{}, err
		}
		return token{kind: tokNull, offset: start}, nil
	}
	if c == '-' || (c >= '0' && c <= '9') {
		n, err := l.scanInt()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokInt, num: n, offset: start}, nil
	}
	return token{}, l.errf(start, "unexpected character %q", c)
}

func (l *lexer) scanKeyword(word string) error {
	if len(l.in)-l.pos < len(word) || l.in[l.pos:l.pos+len(word)] != word {
		return l.errf(l.pos, "invalid literal")
	}
	l.pos += len(word)
	return nil
}

func (l *lexer) scanInt() (int64, error) {
	start := l.pos
	if l.in[l.pos] == '-' {
		l.pos++
	}
	digits := 0
	for l.pos < len(l.in) && l.in[l.pos] >= '0' && l.in[l.pos] <= '9' {
		l.pos++
		digits++
	}
	if digits == 0 {
		return 0, l.errf(start, "malformed number")
	}
	// Floats and exponents are outside the supported subset.
	if l.pos < len(l.in) {
		switch l.in[l.pos] {
		case '.', 'e', 'E':
			return 0, l.errf(start, "floating-point numbers are not supported")
		}
	}
	n, err := strconv.ParseInt(l.in[start:l.pos], 10, 64)
	if err != nil {
		return 0, l.errf(start, "number out of range")
	}
	return n, nil
}

func (l *lexer) scanString() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	var buf []byte
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		switch {
		case c == '"':
			l.pos++
			return string(buf), nil
		case c == '\\':
			l.pos++
			if l.pos >= len(l.in) {
				return "", l.errf(start, "unterminated string")
			}
			esc := l.in[l.pos]
			switch esc {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case '/':
				buf = append(buf, '/')
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'u':
				return "", l.errf(l.pos-1, "unicode escapes are not supported")
			default:
				return "", l.errf(l.pos-1, "unknown escape \\%c", esc)
			}
			l.pos++
		case c < 0x20:
			return "", l.errf(l.pos, "raw control character in string")
		default:
			buf = append(buf, c)
			l.pos++
		}
	}
	return "", l.errf(start, "unterminated string")
}

// Decode parses exactly one value followed by nothing but whitespace.
func Decode(input string) (*Value, error) {
	l := &lexer{in: input}
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	v, err := parseValue(l, tok)
	if err != nil {
		return nil, err
	}
	trailing, err := l.next()
	if err != nil {
		return nil, err
	}
	if trailing.kind != tokEOF {
		return nil, l.errf(trailing.offset, "trailing data after value")
	}
	return v, nil
}

// DecodeObject is Decode restricted to a top-level object.
func DecodeObject(input string) (*Value, error) {
	v, err := Decode(input)
	if err != nil {
		return nil, err
	}
	if v.Kind != Object {
		return nil, &SyntaxError{Offset: 0, Msg: "top-level value must be an object"}
	}
	return v, nil
}

func parseValue(l *lexer, tok token) (*Value, error) {
	switch tok.kind {
	case tokLBrace:
		return parseObject(l)
	case tokLBracket:
		return parseArray(l)
	case tokString:
		return NewString(tok.str), nil
	case tokInt:
		return NewInt(tok.num), nil
	case tokTrue:
		return NewBool(true), nil
	case tokFalse:
		return NewBool(false), nil
	case tokNull:
		return NewNull(), nil
	case tokEOF:
		return nil, l.errf(tok.offset, "unexpected end of input")
	default:
		return nil, l.errf(tok.offset, "unexpected token")
	}
}

func parseObject(l *lexer) (*Value, error) {
	obj := NewObject()
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokRBrace {
		return obj, nil
	}
	for {
		if tok.kind != tokString {
			return nil, l.errf(tok.offset, "expected object key")
		}
		key := tok.str
		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokColon {
			return nil, l.errf(tok.offset, "expected ':' after object key")
		}
		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		val, err := parseValue(l, tok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokRBrace:
			return obj, nil
		case tokComma:
			tok, err = l.next()
			if err != nil {
				return nil, err
			}
		default:
			return nil, l.errf(tok.offset, "expected ',' or '}' in object")
		}
	}
}

func parseArray(l *lexer) (*Value, error) {
	arr := NewArray()
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokRBracket {
		return arr, nil
	}
	for {
		val, err := parseValue(l, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(val)

		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokRBracket:
			return arr, nil
		case tokComma:
			tok, err = l.next()
			if err != nil {
				return nil, err
			}
		default:
			return nil, l.errf(tok.offset, "expected ',' or ']' in array")
		}
	}
}
