// Package bytestream implements the narrow byte-oriented read interface the
// tokeniser scans from: one-byte lookahead with a one-byte push-back, line
// tracking, and an explicit EOF signal. It plays the same role for the
// tokeniser that the teacher's vm.RuneReader plays for Ngaro's console
// input, generalized from runes to raw bytes because PostScript token
// boundaries are defined on bytes, not runes (binary tokens are not valid
// UTF-8).
package bytestream

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Reader is the byte-stream interface the tokeniser consumes.
type Reader interface {
	// ReadByte returns the next byte, or ok=false at end of stream.
	ReadByte() (b byte, ok bool)
	// UnreadByte pushes back the last byte read by ReadByte. Only one level
	// of push-back is guaranteed.
	UnreadByte()
	// LineNum returns the current 1-based line number.
	LineNum() int
	// Close releases any resource backing the stream.
	Close() error
}

// Stream adapts an io.Reader (typically an *os.File or a composite program
// string) to the Reader interface.
type Stream struct {
	r        *bufio.Reader
	closer   io.Closer
	line     int
	pushed   bool
	lastByte byte
	lastCR   bool
}

// New wraps r as a Stream starting at line 1.
func New(r io.Reader) *Stream {
	s := &Stream{r: bufio.NewReader(r), line: 1}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// ReadByte implements Reader. CR-LF counts as a single newline, per
// spec.md §4.2.
func (s *Stream) ReadByte() (byte, bool) {
	if s.pushed {
		s.pushed = false
		return s.lastByte, true
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	switch {
	case b == '\n':
		if !s.lastCR {
			s.line++
		}
		s.lastCR = false
	case b == '\r':
		s.line++
		s.lastCR = true
	default:
		s.lastCR = false
	}
	s.lastByte = b
	return b, true
}

// UnreadByte implements Reader.
func (s *Stream) UnreadByte() {
	s.pushed = true
}

// LineNum implements Reader.
func (s *Stream) LineNum() int { return s.line }

// Close implements Reader.
func (s *Stream) Close() error {
	if s.closer != nil {
		return errors.Wrap(s.closer.Close(), "bytestream: close failed")
	}
	return nil
}

// Bytes wraps an in-memory byte slice (e.g. the body of a PostScript string
// object being tokenised recursively) as a Reader without requiring a
// bufio.Reader allocation.
type Bytes struct {
	buf  []byte
	pos  int
	line int
}

// NewBytes constructs a Bytes stream.
func NewBytes(b []byte) *Bytes {
	return &Bytes{buf: b, line: 1}
}

func (b *Bytes) ReadByte() (byte, bool) {
	if b.pos >= len(b.buf) {
		return 0, false
	}
	c := b.buf[b.pos]
	b.pos++
	if c == '\n' {
		b.line++
	}
	return c, true
}

func (b *Bytes) UnreadByte() {
	if b.pos > 0 {
		b.pos--
		if b.buf[b.pos] == '\n' {
			b.line--
		}
	}
}

func (b *Bytes) LineNum() int { return b.line }

func (b *Bytes) Close() error { return nil }
