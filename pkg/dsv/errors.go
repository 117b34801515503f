// Package dsv error types. Parse-side errors carry input positions;
// write-side errors surface at writer construction or at the offending
// row, never lazily elsewhere.
package dsv

import (
	"errors"

	"github.com/shapestone/shape-dsv/internal/assembler"
	"github.com/shapestone/shape-dsv/internal/quoting"
)

// MalformedRowError reports a quote character where the dialect does not
// permit one. It terminates the parse pass permanently; resuming
// requires a fresh pass over a fresh source.
type MalformedRowError = assembler.MalformedRowError

// UnsupportedDialectError reports a quoting-mode combination no encoding
// strategy can realize, raised when the writer is constructed.
type UnsupportedDialectError = quoting.UnsupportedDialectError

// ErrNoFieldnames is returned when fieldnames are queried before the
// first row has been read.
var ErrNoFieldnames = assembler.ErrNoFieldnames

// IsMalformedRow reports whether err is (or wraps) a MalformedRowError.
func IsMalformedRow(err error) bool {
	var me *MalformedRowError
	return errors.As(err, &me)
}

// IsUnsupportedDialect reports whether err is (or wraps) an
// UnsupportedDialectError.
func IsUnsupportedDialect(err error) bool {
	var ue *UnsupportedDialectError
	return errors.As(err, &ue)
}

// DialectError reports an invalid dialect configuration or profile
// lookup.
type DialectError struct {
	Field   string
	Message string
}

// Error formats the error.
func (e *DialectError) Error() string {
	return "dsv: invalid " + e.Field + ": " + e.Message
}
