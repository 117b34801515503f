// Package quoting implements the write-side field encoding strategies
// and the row formatter.
package quoting

import (
	"fmt"
	"strings"
)

// Mode is the policy governing when a field is wrapped in quote
// characters.
type Mode int

const (
	// Minimal wraps a field only when its content requires it.
	Minimal Mode = iota
	// All wraps every field.
	All
	// NonNumeric wraps text fields; numeric fields are never force-quoted.
	NonNumeric
	// None never wraps; internal delimiters are escaped instead.
	None
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Minimal:
		return "minimal"
	case All:
		return "all"
	case NonNumeric:
		return "nonnumeric"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Dialect carries the write-side configuration the encoder dispatches on.
// Quote and Escape are disabled when zero.
type Dialect struct {
	Delimiter   rune
	Quote       rune
	Escape      rune
	DoubleQuote bool
	Mode        Mode
}

// UnsupportedDialectError reports a (quoting mode, doublequote,
// escapechar) combination no encoding strategy can realize. It is raised
// at encoder construction, not per field.
type UnsupportedDialectError struct {
	Mode        Mode
	DoubleQuote bool
	Reason      string
}

// Error formats the error.
func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("dsv: unsupported dialect: quoting=%s doublequote=%t: %s",
		e.Mode, e.DoubleQuote, e.Reason)
}

// Encoder encodes one field value. The numeric flag selects the numeric
// path under the NonNumeric mode and is ignored by every other strategy.
type Encoder func(value string, numeric bool) string

// NewEncoder selects one of the six pure encoding strategies for the
// dialect. The choice is made here, once, not re-evaluated per field.
func NewEncoder(d Dialect) (Encoder, error) {
	if d.Mode == None {
		if d.Escape == 0 {
			return nil, &UnsupportedDialectError{
				Mode:        d.Mode,
				DoubleQuote: d.DoubleQuote,
				Reason:      "escape character required to escape delimiters",
			}
		}
		delim := string(d.Delimiter)
		escDelim := string(d.Escape) + delim
		return func(v string, _ bool) string {
			// Quote characters in the value pass through literally.
			if strings.Contains(v, delim) {
				return strings.ReplaceAll(v, delim, escDelim)
			}
			return v
		}, nil
	}

	if d.Quote == 0 {
		return nil, &UnsupportedDialectError{
			Mode:        d.Mode,
			DoubleQuote: d.DoubleQuote,
			Reason:      "quote character required",
		}
	}
	if !d.DoubleQuote && d.Escape == 0 {
		return nil, &UnsupportedDialectError{
			Mode:        d.Mode,
			DoubleQuote: d.DoubleQuote,
			Reason:      "escape character required when doublequote is disabled",
		}
	}

	quote := string(d.Quote)
	delim := string(d.Delimiter)
	doubled := quote + quote
	escQuote := doubled
	if d.Escape != 0 {
		escQuote = string(d.Escape) + quote
	}

	allDouble := func(v string, _ bool) string {
		return quote + strings.ReplaceAll(v, quote, doubled) + quote
	}
	allEscape := func(v string, _ bool) string {
		if strings.Contains(v, quote) {
			v = strings.ReplaceAll(v, quote, escQuote)
		}
		return quote + v + quote
	}
	minimalDouble := func(v string, _ bool) string {
		wrap := strings.Contains(v, delim)
		if strings.Contains(v, quote) {
			wrap = true
			v = strings.ReplaceAll(v, quote, doubled)
		}
		if wrap {
			return quote + v + quote
		}
		return v
	}
	minimalEscape := func(v string, _ bool) string {
		// Internal quotes are escaped before the wrapping decision, so a
		// field that stays unwrapped still carries the escape sequences.
		// Matches the reference writer; kept as observed.
		if strings.Contains(v, quote) {
			v = strings.ReplaceAll(v, quote, escQuote)
		}
		if strings.Contains(v, delim) {
			return quote + v + quote
		}
		return v
	}

	switch {
	case d.Mode == All && d.DoubleQuote:
		return allDouble, nil
	case d.Mode == All:
		return allEscape, nil
	case d.Mode == Minimal && d.DoubleQuote:
		return minimalDouble, nil
	case d.Mode == Minimal:
		return minimalEscape, nil
	case d.Mode == NonNumeric:
		text := allDouble
		if !d.DoubleQuote {
			text = allEscape
		}
		return func(v string, numeric bool) string {
			if numeric {
				return minimalEscape(v, false)
			}
			return text(v, false)
		}, nil
	}

	return nil, &UnsupportedDialectError{
		Mode:        d.Mode,
		DoubleQuote: d.DoubleQuote,
		Reason:      "unknown quoting mode",
	}
}
