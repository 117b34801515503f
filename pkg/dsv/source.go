// Package dsv chunk source and sink adapters.
package dsv

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

// Source yields successive text chunks. Read returns the empty string
// exactly once, at true end of stream, and is not called again
// afterward. Implementations must honor context cancellation so an
// abandoned read-ahead can be cancelled and awaited.
type Source interface {
	Read(ctx context.Context, maxSize int) (string, error)
}

// Sink accepts text on the write path. The returned count is accepted
// but not interpreted by the writer.
type Sink interface {
	Write(ctx context.Context, text string) (int, error)
}

// ReaderSource adapts an io.Reader to the Source contract. Chunks are
// measured in runes and never split a multi-byte sequence.
type ReaderSource struct {
	br  *bufio.Reader
	eof bool
}

// NewReaderSource wraps r as a chunk source.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{br: bufio.NewReader(r)}
}

// Read returns the next chunk of up to maxSize runes, or the empty
// string at end of stream.
func (s *ReaderSource) Read(ctx context.Context, maxSize int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.eof {
		return "", nil
	}
	var b strings.Builder
	for i := 0; i < maxSize; i++ {
		r, _, err := s.br.ReadRune()
		if err == io.EOF {
			s.eof = true
			break
		}
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// StringSource serves a string held in memory as a chunk source. Useful
// for tests and for parsing documents already in memory.
type StringSource struct {
	s   string
	pos int
}

// NewStringSource creates a source over s.
func NewStringSource(s string) *StringSource {
	return &StringSource{s: s}
}

// Read returns the next chunk of up to maxSize bytes, backed off to a
// rune boundary, or the empty string when the input is exhausted.
func (s *StringSource) Read(ctx context.Context, maxSize int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.s) {
		return "", nil
	}
	end := s.pos + maxSize
	if end >= len(s.s) {
		end = len(s.s)
	} else {
		for end > s.pos && !utf8.RuneStart(s.s[end]) {
			end--
		}
		if end == s.pos {
			// Pathologically small maxSize: emit one whole rune.
			_, size := utf8.DecodeRuneInString(s.s[s.pos:])
			end = s.pos + size
		}
	}
	chunk := s.s[s.pos:end]
	s.pos = end
	return chunk, nil
}

// WriterSink adapts an io.Writer to the Sink contract.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink wraps w as a sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write forwards text to the underlying writer.
func (s *WriterSink) Write(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return io.WriteString(s.w, text)
}
