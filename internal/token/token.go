// Package token implements the PostScript tokeniser (spec.md §4.2): the
// text scanner that turns a byte stream into numbers, names, strings, and
// structural delimiters, plus (in binary.go) a codec for single
// binary-encoded scalar objects. The Scanner does not call that codec, and
// no operator in this module is bound to it.
package token

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/bytestream"
	"github.com/gopostscript/postforge/internal/object"
)

// Kind identifies the syntactic class of a scanned Token.
type Kind uint8

const (
	EOF Kind = iota
	Number
	NameTok
	StringTok
	ProcStart // {
	ProcEnd   // }
	ArrayStart
	ArrayEnd
	DictStart // <<
	DictEnd   // >>
)

// Token is one scanned lexical unit. For Number, Obj is already a
// fully-formed Int or Real object.Object; for NameTok, Text holds the name
// text and Literal reports whether it was written with a leading '/';
// for StringTok, Bytes holds the decoded string payload.
type Token struct {
	Kind    Kind
	Text    string
	Bytes   []byte
	Literal bool
	Obj     object.Object
}

// Scanner scans Tokens from a bytestream.Reader.
type Scanner struct {
	r bytestream.Reader
}

// New creates a Scanner reading from r.
func New(r bytestream.Reader) *Scanner {
	return &Scanner{r: r}
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		b, ok := s.r.ReadByte()
		if !ok {
			return
		}
		if b == '%' {
			for {
				c, ok := s.r.ReadByte()
				if !ok || c == '\n' || c == '\r' {
					break
				}
			}
			continue
		}
		if isWhitespace(b) {
			continue
		}
		s.r.UnreadByte()
		return
	}
}

// Next scans and returns the next Token. At end of stream it returns a
// Token{Kind: EOF}.
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespaceAndComments()
	b, ok := s.r.ReadByte()
	if !ok {
		return Token{Kind: EOF}, nil
	}
	switch b {
	case '{':
		return Token{Kind: ProcStart}, nil
	case '}':
		return Token{Kind: ProcEnd}, nil
	case '[':
		return Token{Kind: ArrayStart}, nil
	case ']':
		return Token{Kind: ArrayEnd}, nil
	case '(':
		return s.scanLiteralString()
	case '<':
		return s.scanAngleBracket()
	case '>':
		if b2, ok := s.r.ReadByte(); ok && b2 == '>' {
			return Token{Kind: DictEnd}, nil
		} else if ok {
			s.r.UnreadByte()
		}
		return Token{}, errors.New("token: stray '>' outside hex string")
	case '/':
		return s.scanName(true)
	default:
		s.r.UnreadByte()
		return s.scanRegular()
	}
}

func (s *Scanner) scanAngleBracket() (Token, error) {
	b, ok := s.r.ReadByte()
	if ok && b == '<' {
		return Token{Kind: DictStart}, nil
	}
	if ok {
		s.r.UnreadByte()
	}
	return s.scanHexString()
}

func (s *Scanner) readRegularRun() string {
	var sb strings.Builder
	for {
		b, ok := s.r.ReadByte()
		if !ok {
			break
		}
		if isWhitespace(b) || isDelimiter(b) {
			s.r.UnreadByte()
			break
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func (s *Scanner) scanRegular() (Token, error) {
	text := s.readRegularRun()
	if text == "" {
		// a stray delimiter Next does not otherwise special-case (an
		// unmatched ')'); consume it and return an error, so the caller
		// reports a syntax error rather than looping.
		b, _ := s.r.ReadByte()
		return Token{}, errors.Errorf("token: unexpected %q", b)
	}
	if obj, ok := parseNumber(text); ok {
		return Token{Kind: Number, Obj: obj}, nil
	}
	return Token{Kind: NameTok, Text: text}, nil
}

func (s *Scanner) scanName(literal bool) (Token, error) {
	text := s.readRegularRun()
	return Token{Kind: NameTok, Text: text, Literal: literal}, nil
}

// parseNumber recognizes PostScript integers, reals (with optional
// exponent), and radix integers (base#digits), per spec.md §4.1. Anything
// that doesn't fully match a numeric grammar is treated as a name.
func parseNumber(text string) (object.Object, bool) {
	if text == "" {
		return object.Object{}, false
	}
	if i := strings.IndexByte(text, '#'); i > 0 {
		return parseRadix(text[:i], text[i+1:])
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return object.NewInt(v), true
	}
	if looksNumeric(text) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return object.NewReal(v), true
		}
	}
	return object.Object{}, false
}

func looksNumeric(text string) bool {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	if i >= len(text) {
		return false
	}
	sawDigit, sawDot, sawExp := false, false, false
	for ; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot && !sawExp:
			sawDot = true
		case (c == 'e' || c == 'E') && !sawExp && sawDigit:
			sawExp = true
			if i+1 < len(text) && (text[i+1] == '+' || text[i+1] == '-') {
				i++
			}
		default:
			return false
		}
	}
	return sawDigit
}

func parseRadix(baseStr, digits string) (object.Object, bool) {
	base, err := strconv.Atoi(baseStr)
	if err != nil || base < 2 || base > 36 || digits == "" {
		return object.Object{}, false
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return object.Object{}, false
	}
	return object.NewInt(v), true
}

func (s *Scanner) scanLiteralString() (Token, error) {
	var buf []byte
	depth := 1
	for {
		b, ok := s.r.ReadByte()
		if !ok {
			return Token{}, errors.New("token: unterminated string literal")
		}
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return Token{Kind: StringTok, Bytes: buf}, nil
			}
			buf = append(buf, b)
		case '\\':
			e, ok := s.r.ReadByte()
			if !ok {
				return Token{}, errors.New("token: unterminated escape in string literal")
			}
			switch e {
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
			case '\\', '(', ')':
				buf = append(buf, e)
			case '\n':
				// line continuation: swallowed, no byte emitted.
			case '\r':
				if p, ok := s.r.ReadByte(); ok && p != '\n' {
					s.r.UnreadByte()
				}
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2; k++ {
						d, ok := s.r.ReadByte()
						if !ok || d < '0' || d > '7' {
							if ok {
								s.r.UnreadByte()
							}
							break
						}
						val = val*8 + int(d-'0')
					}
					buf = append(buf, byte(val))
				} else {
					buf = append(buf, e)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func (s *Scanner) scanHexString() (Token, error) {
	var buf []byte
	var nibble int
	haveNibble := false
	for {
		b, ok := s.r.ReadByte()
		if !ok {
			return Token{}, errors.New("token: unterminated hex string")
		}
		if b == '>' {
			if haveNibble {
				buf = append(buf, byte(nibble<<4))
			}
			return Token{Kind: StringTok, Bytes: buf}, nil
		}
		if isWhitespace(b) {
			continue
		}
		v, ok := hexVal(b)
		if !ok {
			return Token{}, errors.Errorf("token: invalid hex digit %q", b)
		}
		if !haveNibble {
			nibble = v
			haveNibble = true
		} else {
			buf = append(buf, byte(nibble<<4|v))
			haveNibble = false
		}
	}
}
