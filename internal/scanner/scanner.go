package scanner

import (
	"context"
	"errors"
	"unicode/utf8"
)

// DefaultChunkSize is the read size requested from the source when the
// caller does not specify one.
const DefaultChunkSize = 8192

var (
	// ErrExhausted is returned by Next after the EOF token has been
	// produced. The token stream is finite and non-restartable.
	ErrExhausted = errors.New("scanner: token stream exhausted")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("scanner: closed")
)

// Source yields successive text chunks. Read returns the empty string
// exactly once, at true end of stream; the scanner never calls Read again
// after that. Read must honor context cancellation for the
// cancel-and-await discipline in Close to terminate.
type Source interface {
	Read(ctx context.Context, maxSize int) (string, error)
}

// Dialect carries the characters the scanner classifies specially.
// Quote and Escape are disabled when zero.
type Dialect struct {
	Delimiter rune
	Quote     rune
	Escape    rune
}

// fill is the result of one chunk read.
type fill struct {
	chunk string
	err   error
}

// Scanner produces a lazy, finite, non-restartable token stream from a
// Source. While the caller consumes tokens from the current chunk the
// next chunk read is already in flight, so source latency overlaps with
// token consumption. Exactly one read is ever pending.
//
// A Scanner processes one stream, once, forward-only, and must not be
// shared between goroutines.
type Scanner struct {
	dialect   Dialect
	src       Source
	chunkSize int

	ctx     context.Context
	cancel  context.CancelFunc
	pending chan fill // nil once the source has reported end of stream

	buf  string
	bpos int // byte offset of the next rune in buf

	abs       int // runes consumed so far across all chunks
	line      int
	lineStart int // abs position where the current line began

	done   bool
	closed bool
}

// New creates a Scanner over src and issues the first chunk read
// immediately. chunkSize <= 0 selects DefaultChunkSize. The context
// bounds every read the scanner issues.
func New(ctx context.Context, d Dialect, src Source, chunkSize int) *Scanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Scanner{
		dialect:   d,
		src:       src,
		chunkSize: chunkSize,
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(chan fill, 1),
		line:      1,
	}
	s.issueRead()
	return s
}

// issueRead starts the next chunk read. The channel is buffered so the
// goroutine never outlives an abandoned scanner waiting to deliver.
func (s *Scanner) issueRead() {
	ch := s.pending
	ctx := s.ctx
	go func() {
		chunk, err := s.src.Read(ctx, s.chunkSize)
		ch <- fill{chunk: chunk, err: err}
	}()
}

// nextRune returns the next input rune, awaiting the pending chunk read
// when the current chunk is exhausted. ok is false at end of stream.
func (s *Scanner) nextRune() (r rune, ok bool, err error) {
	for s.bpos >= len(s.buf) {
		if s.pending == nil {
			return 0, false, nil
		}
		res := <-s.pending
		if res.err != nil {
			s.pending = nil
			return 0, false, res.err
		}
		if res.chunk == "" {
			// True end of stream; the source must not be read again.
			s.pending = nil
			return 0, false, nil
		}
		s.buf = res.chunk
		s.bpos = 0
		s.issueRead()
	}
	r, size := utf8.DecodeRuneInString(s.buf[s.bpos:])
	s.bpos += size
	s.abs++
	return r, true, nil
}

// Next returns the next token. It returns exactly one KindEOF token at
// end of stream; calling Next again afterward is a usage error and
// returns ErrExhausted. Source failures are fatal to the pass.
func (s *Scanner) Next() (Token, error) {
	if s.closed {
		return Token{}, ErrClosed
	}
	if s.done {
		return Token{}, ErrExhausted
	}

	r, ok, err := s.nextRune()
	if err != nil {
		s.done = true
		return Token{}, err
	}
	if !ok {
		s.done = true
		return Token{Kind: KindEOF, Line: s.line, Column: s.abs - s.lineStart}, nil
	}

	var kind Kind
	d := s.dialect
	switch {
	case d.Quote != 0 && r == d.Quote:
		kind = KindQuote
	case d.Escape != 0 && r == d.Escape:
		kind = KindEscape
	case r == '\r':
		kind = KindCR
	case r == '\n':
		// The LF token reports the line it opens, at column zero.
		s.line++
		s.lineStart = s.abs
		kind = KindLF
	case r == d.Delimiter:
		kind = KindDelimiter
	case r == ' ':
		kind = KindWhitespace
	default:
		kind = KindChar
	}
	return Token{Kind: kind, Ch: r, Line: s.line, Column: s.abs - s.lineStart}, nil
}

// Close releases the scanner. If a chunk read is still in flight it is
// cancelled and awaited before Close returns, so no background work or
// unobserved failure outlives the scanner. Close is idempotent.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	if s.pending != nil {
		<-s.pending
		s.pending = nil
	}
	return nil
}
