package scanner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkSource serves a fixed sequence of chunks and counts reads.
type chunkSource struct {
	chunks []string
	next   int
	reads  atomic.Int32
}

func (s *chunkSource) Read(ctx context.Context, maxSize int) (string, error) {
	s.reads.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.chunks) {
		return "", nil
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

// blockingSource blocks every read until the context is cancelled.
type blockingSource struct {
	started chan struct{}
}

func (s *blockingSource) Read(ctx context.Context, maxSize int) (string, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func excelDialect() Dialect {
	return Dialect{Delimiter: ',', Quote: '"'}
}

func collect(t *testing.T, s *Scanner) []Token {
	t.Helper()
	var tokens []Token
	for {
		tok, err := s.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens
		}
	}
}

func TestScanner_Classification(t *testing.T) {
	src := &chunkSource{chunks: []string{"a,\"x\"\r\n b"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	tokens := collect(t, s)
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{
		KindChar, KindDelimiter, KindQuote, KindChar, KindQuote,
		KindCR, KindLF, KindWhitespace, KindChar, KindEOF,
	}, kinds)
}

func TestScanner_EscapeClassifiedOnlyWhenConfigured(t *testing.T) {
	src := &chunkSource{chunks: []string{`a\b`}}
	s := New(context.Background(), Dialect{Delimiter: ','}, src, 0)
	defer s.Close()
	tokens := collect(t, s)
	assert.Equal(t, KindChar, tokens[1].Kind, "backslash is plain without an escape char")

	src = &chunkSource{chunks: []string{`a\b`}}
	s = New(context.Background(), Dialect{Delimiter: ',', Escape: '\\'}, src, 0)
	defer s.Close()
	tokens = collect(t, s)
	assert.Equal(t, KindEscape, tokens[1].Kind)
}

func TestScanner_PrecedenceWhenCharactersCoincide(t *testing.T) {
	// Degenerate dialect: delimiter == quote. The quote check runs
	// first, so the character always classifies as QUOTE.
	src := &chunkSource{chunks: []string{`a"b`}}
	s := New(context.Background(), Dialect{Delimiter: '"', Quote: '"'}, src, 0)
	defer s.Close()
	tokens := collect(t, s)
	assert.Equal(t, KindQuote, tokens[1].Kind)
}

func TestScanner_Positions(t *testing.T) {
	src := &chunkSource{chunks: []string{"ab\ncd"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	tokens := collect(t, s)
	require.Len(t, tokens, 6)

	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 1, tokens[1].Line)
	assert.Equal(t, 2, tokens[1].Column)
	// The LF itself reports the line it opens.
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, KindLF, tokens[2].Kind)
	assert.Equal(t, 2, tokens[3].Line)
	assert.Equal(t, 1, tokens[3].Column)
	assert.Equal(t, 2, tokens[4].Column)
}

func TestScanner_TokensSpanChunkBoundaries(t *testing.T) {
	src := &chunkSource{chunks: []string{"a,", "b\n", "c"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	tokens := collect(t, s)
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{KindChar, KindDelimiter, KindChar, KindLF, KindChar, KindEOF}, kinds)
}

func TestScanner_MultiByteRunesAcrossChunks(t *testing.T) {
	// Chunks split between runes, never inside one; the scanner must
	// keep rune positions straight across the seam.
	src := &chunkSource{chunks: []string{"héllo", ",wörld"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	var got []rune
	for {
		tok, err := s.Next()
		require.NoError(t, err)
		if tok.Kind == KindEOF {
			break
		}
		got = append(got, tok.Ch)
	}
	assert.Equal(t, []rune("héllo,wörld"), got)
}

func TestScanner_EOFEmittedExactlyOnce(t *testing.T) {
	src := &chunkSource{chunks: nil}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	tok, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, KindEOF, tok.Kind)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestScanner_ReadAheadKeepsOneReadInFlight(t *testing.T) {
	src := &chunkSource{chunks: []string{"ab", "cd"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	// Construction already issued the first read.
	require.Eventually(t, func() bool { return src.reads.Load() == 1 },
		time.Second, time.Millisecond)

	// Consuming the first token awaits chunk 1 and issues the read for
	// chunk 2 before any of chunk 1 is handed out.
	_, err := s.Next()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return src.reads.Load() == 2 },
		time.Second, time.Millisecond)
}

func TestScanner_SourceNotReadPastEndOfStream(t *testing.T) {
	src := &chunkSource{chunks: []string{"a"}}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	collect(t, s)
	// One read for the chunk, one returning the empty terminator.
	assert.Equal(t, int32(2), src.reads.Load())
}

func TestScanner_CloseCancelsPendingRead(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}, 1)}
	s := New(context.Background(), excelDialect(), src, 0)

	// Wait for the read-ahead to be in flight, then close underneath it.
	<-src.started
	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel and await the pending read")
	}

	_, err := s.Next()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestScanner_SourceErrorIsFatal(t *testing.T) {
	wantErr := errors.New("boom")
	src := errorSource{err: wantErr}
	s := New(context.Background(), excelDialect(), src, 0)
	defer s.Close()

	_, err := s.Next()
	assert.ErrorIs(t, err, wantErr)
}

type errorSource struct{ err error }

func (s errorSource) Read(ctx context.Context, maxSize int) (string, error) {
	return "", s.err
}
