// Package assembler implements the row-assembly state machine that turns
// the scanner's token stream into fields and rows.
package assembler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-dsv/internal/scanner"
)

// ErrNoFieldnames is returned by Fieldnames before any row has been
// assembled.
var ErrNoFieldnames = errors.New("dsv: fieldnames not available until the first row has been read")

// MalformedRowError reports a quote character in a position the dialect
// does not permit: inside an unquoted field, or directly after a closing
// quote with no delimiter, terminator, or EOF following. The error is
// fatal to the pass; the assembler must not be read further.
type MalformedRowError struct {
	// Line is the 1-indexed input line of the offending character.
	Line int
	// Column is the 1-indexed column of the offending character.
	Column int
	// Err describes the illegal transition.
	Err error
}

// Error formats the error with its input position.
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("dsv: malformed row on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

var (
	errQuoteInField   = errors.New("quote character inside unquoted field")
	errCharAfterQuote = errors.New("unexpected character after closing quote")
)

// state is the assembler's position within the current field.
type state uint8

const (
	stateBeginField state = iota
	stateField
	stateQuotedField
	stateExpectQuoteOrTerm
	stateEscape
)

func (s state) String() string {
	switch s {
	case stateBeginField:
		return "BEGIN_FIELD"
	case stateField:
		return "FIELD"
	case stateQuotedField:
		return "QUOTED_FIELD"
	case stateExpectQuoteOrTerm:
		return "EXPECT_QUOTE_OR_TERMINATOR"
	case stateEscape:
		return "ESCAPE"
	default:
		return fmt.Sprintf("state(%d)", s)
	}
}

// Options configures row assembly.
type Options struct {
	// SkipInitialSpace drops whitespace tokens at the start of a field
	// instead of appending them.
	SkipInitialSpace bool
}

// TokenStream is the assembler's view of the scanner: a forward-only
// stream of classified characters ending in exactly one EOF token.
type TokenStream interface {
	Next() (scanner.Token, error)
}

// Assembler consumes a token stream and produces rows. It processes
// exactly one stream, once, forward-only. After any error the assembler
// is dead; there is no row-level resynchronization.
type Assembler struct {
	tokens TokenStream
	opts   Options

	state state
	field strings.Builder
	row   []string

	fieldnames     []string
	haveFieldnames bool

	done bool
	err  error
}

// New creates an Assembler over the given token stream.
func New(tokens TokenStream, opts Options) *Assembler {
	return &Assembler{
		tokens: tokens,
		opts:   opts,
		state:  stateBeginField,
	}
}

// Fieldnames returns the first row the stream produced. It is captured
// when the first row is finalized and read-only afterward. Before any
// row has been assembled it returns ErrNoFieldnames.
func (a *Assembler) Fieldnames() ([]string, error) {
	if !a.haveFieldnames {
		return nil, ErrNoFieldnames
	}
	return a.fieldnames, nil
}

// Next assembles and returns the next row. It returns io.EOF after the
// final row. A MalformedRowError (or a scanner/source failure) is fatal:
// every subsequent call returns the same error.
func (a *Assembler) Next() ([]string, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.done {
		return nil, io.EOF
	}
	for {
		tok, err := a.tokens.Next()
		if err != nil {
			a.err = err
			return nil, err
		}
		row, emitted, err := a.step(tok)
		if err != nil {
			a.err = err
			return nil, err
		}
		if emitted {
			return row, nil
		}
		if tok.Kind == scanner.KindEOF {
			a.done = true
			return nil, io.EOF
		}
	}
}

// step applies one token to the state machine. It returns the finalized
// row when the token completed one. Unlisted (state, kind) combinations
// are an explicit error branch, not a recovered panic: illegal
// transitions are part of the contract.
func (a *Assembler) step(tok scanner.Token) (row []string, emitted bool, err error) {
	// CR is discarded unconditionally; CRLF and bare LF are both one
	// line break, and quoted fields never see the CR either.
	if tok.Kind == scanner.KindCR {
		return nil, false, nil
	}

	if tok.Kind == scanner.KindEOF {
		if a.state == stateBeginField && a.field.Len() == 0 && len(a.row) == 0 {
			// Nothing pending: the synthetic trailing row is dropped.
			a.done = true
			return nil, false, nil
		}
		a.finalizeField()
		a.done = true
		return a.finalizeRow(), true, nil
	}

	// An escape consumes exactly the next character, whatever its kind.
	if a.state == stateEscape {
		a.field.WriteRune(tok.Ch)
		a.state = stateField
		return nil, false, nil
	}

	switch tok.Kind {
	case scanner.KindChar:
		if a.state == stateExpectQuoteOrTerm {
			return nil, false, a.malformed(tok, errCharAfterQuote)
		}
		a.field.WriteRune(tok.Ch)
		if a.state == stateBeginField {
			a.state = stateField
		}
		return nil, false, nil

	case scanner.KindWhitespace:
		if a.state == stateExpectQuoteOrTerm {
			return nil, false, a.malformed(tok, errCharAfterQuote)
		}
		if a.state == stateBeginField {
			if a.opts.SkipInitialSpace {
				// Dropped: not appended, not counted as field start.
				return nil, false, nil
			}
			a.state = stateField
		}
		a.field.WriteRune(tok.Ch)
		return nil, false, nil

	case scanner.KindDelimiter:
		if a.state == stateQuotedField {
			a.field.WriteRune(tok.Ch)
			return nil, false, nil
		}
		a.finalizeField()
		return nil, false, nil

	case scanner.KindLF:
		if a.state == stateQuotedField {
			// A line break inside quotes is field content, not a row end.
			a.field.WriteByte('\n')
			return nil, false, nil
		}
		a.finalizeField()
		return a.finalizeRow(), true, nil

	case scanner.KindQuote:
		switch a.state {
		case stateBeginField:
			a.state = stateQuotedField
			return nil, false, nil
		case stateQuotedField:
			a.state = stateExpectQuoteOrTerm
			return nil, false, nil
		case stateExpectQuoteOrTerm:
			// Doubled quote: one literal quote character.
			a.field.WriteRune(tok.Ch)
			a.state = stateQuotedField
			return nil, false, nil
		default:
			return nil, false, a.malformed(tok, errQuoteInField)
		}

	case scanner.KindEscape:
		a.state = stateEscape
		return nil, false, nil
	}

	return nil, false, a.malformed(tok, fmt.Errorf("no transition from %s on %s", a.state, tok.Kind))
}

// finalizeField appends the accumulated buffer to the row and resets for
// the next field. The builder is reset, not reallocated.
func (a *Assembler) finalizeField() {
	a.row = append(a.row, a.field.String())
	a.field.Reset()
	a.state = stateBeginField
}

// finalizeRow captures fieldnames from the first row and hands the row
// off, starting a fresh one.
func (a *Assembler) finalizeRow() []string {
	row := a.row
	a.row = nil
	if !a.haveFieldnames {
		a.fieldnames = row
		a.haveFieldnames = true
	}
	return row
}

func (a *Assembler) malformed(tok scanner.Token, err error) error {
	return &MalformedRowError{Line: tok.Line, Column: tok.Column, Err: err}
}
