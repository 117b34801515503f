package quoting

import "strings"

// Formatter sequences encoded fields into delimiter-joined rows. The
// line terminator is emitted lazily: written immediately before every
// row after the first, never appended after the last, so rows can be
// formatted incrementally without knowing whether more follow.
type Formatter struct {
	delimiter  string
	terminator string
	pending    bool
}

// NewFormatter creates a Formatter for one output stream.
func NewFormatter(delimiter rune, terminator string) *Formatter {
	return &Formatter{
		delimiter:  string(delimiter),
		terminator: terminator,
	}
}

// FormatRow joins the already-encoded fields into one output record.
// Every call after the first is prefixed with the line terminator.
func (f *Formatter) FormatRow(fields []string) string {
	var b strings.Builder
	if f.pending {
		b.WriteString(f.terminator)
	}
	f.pending = true
	for i, field := range fields {
		if i > 0 {
			b.WriteString(f.delimiter)
		}
		b.WriteString(field)
	}
	return b.String()
}
