package dsv

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// Quoting is the policy governing when the writer wraps a field in quote
// characters.
type Quoting int

const (
	// QuoteMinimal quotes a field only when its content requires it.
	QuoteMinimal Quoting = iota
	// QuoteAll quotes every field.
	QuoteAll
	// QuoteNonNumeric quotes text fields; numeric fields are never
	// force-quoted.
	QuoteNonNumeric
	// QuoteNone never quotes; internal delimiters are escaped instead.
	QuoteNone
)

// String returns the quoting policy name as used in profile files.
func (q Quoting) String() string {
	switch q {
	case QuoteMinimal:
		return "minimal"
	case QuoteAll:
		return "all"
	case QuoteNonNumeric:
		return "nonnumeric"
	case QuoteNone:
		return "none"
	default:
		return fmt.Sprintf("Quoting(%d)", q)
	}
}

// ParseQuoting converts a profile-file quoting name to a Quoting value.
func ParseQuoting(name string) (Quoting, error) {
	switch name {
	case "minimal":
		return QuoteMinimal, nil
	case "all":
		return QuoteAll, nil
	case "nonnumeric":
		return QuoteNonNumeric, nil
	case "none":
		return QuoteNone, nil
	default:
		return 0, &DialectError{Field: "quoting", Message: "unknown quoting policy " + name}
	}
}

// Dialect is the configuration bundle governing delimiter, quoting, and
// escaping rules for one stream. It is a plain value: copy it freely,
// but treat the fields as read-only for the lifetime of a parse or
// format pass.
type Dialect struct {
	// Delimiter separates fields. Required.
	Delimiter rune

	// Quote wraps fields on the write path and opens quoted regions on
	// the read path. Zero disables quoting.
	Quote rune

	// Escape introduces a literal next character on the read path and
	// escapes quotes/delimiters on the write path. Zero disables it.
	Escape rune

	// DoubleQuote escapes quote characters by doubling them instead of
	// prefixing the escape character.
	DoubleQuote bool

	// SkipInitialSpace drops spaces immediately following the delimiter.
	SkipInitialSpace bool

	// LineTerminator is the exact string the writer emits between rows.
	// The reader accepts CRLF and bare LF regardless.
	LineTerminator string

	// Quoting selects the write-side quoting policy.
	Quoting Quoting
}

// validDelim reports whether r can serve as a delimiter.
func validDelim(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks structural requirements common to both paths. Quoting
// mode feasibility (escape character present when a strategy needs it)
// is checked at writer construction instead.
func (d Dialect) Validate() error {
	if !validDelim(d.Delimiter) {
		return &DialectError{Field: "delimiter", Message: "invalid delimiter"}
	}
	if d.LineTerminator == "" {
		return &DialectError{Field: "lineterminator", Message: "line terminator must not be empty"}
	}
	return nil
}

// Overrides carries optional per-field replacements applied over a named
// base profile. Nil fields keep the base value; a pointer to the zero
// rune disables the quote or escape character outright.
type Overrides struct {
	Delimiter        *rune
	Quote            *rune
	Escape           *rune
	DoubleQuote      *bool
	SkipInitialSpace *bool
	LineTerminator   *string
	Quoting          *Quoting
}

// Apply returns a copy of d with the non-nil overrides applied.
func (d Dialect) Apply(o Overrides) Dialect {
	if o.Delimiter != nil {
		d.Delimiter = *o.Delimiter
	}
	if o.Quote != nil {
		d.Quote = *o.Quote
	}
	if o.Escape != nil {
		d.Escape = *o.Escape
	}
	if o.DoubleQuote != nil {
		d.DoubleQuote = *o.DoubleQuote
	}
	if o.SkipInitialSpace != nil {
		d.SkipInitialSpace = *o.SkipInitialSpace
	}
	if o.LineTerminator != nil {
		d.LineTerminator = *o.LineTerminator
	}
	if o.Quoting != nil {
		d.Quoting = *o.Quoting
	}
	return d
}

// registry maps profile names to dialects. Built-ins mirror the
// canonical spreadsheet profiles.
var (
	registryMu sync.RWMutex
	registry   = map[string]Dialect{
		"excel": {
			Delimiter:      ',',
			Quote:          '"',
			DoubleQuote:    true,
			LineTerminator: "\r\n",
			Quoting:        QuoteMinimal,
		},
		"excel-tab": {
			Delimiter:      '\t',
			Quote:          '"',
			DoubleQuote:    true,
			LineTerminator: "\r\n",
			Quoting:        QuoteMinimal,
		},
		"unix": {
			Delimiter:      ',',
			Quote:          '"',
			DoubleQuote:    true,
			LineTerminator: "\n",
			Quoting:        QuoteAll,
		},
	}
)

// Get returns the named dialect profile.
func Get(name string) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return Dialect{}, &DialectError{Field: "name", Message: "unknown dialect " + name}
	}
	return d, nil
}

// GetWith returns the named profile with the overrides applied and
// validated.
func GetWith(name string, o Overrides) (Dialect, error) {
	base, err := Get(name)
	if err != nil {
		return Dialect{}, err
	}
	d := base.Apply(o)
	if err := d.Validate(); err != nil {
		return Dialect{}, err
	}
	return d, nil
}

// Register adds or replaces a named dialect profile.
func Register(name string, d Dialect) error {
	if name == "" {
		return &DialectError{Field: "name", Message: "profile name must not be empty"}
	}
	if err := d.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = d
	return nil
}

// Names returns the registered profile names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
