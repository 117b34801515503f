// Package dsv dialect profile files.
//
// A profile document is a YAML mapping of profile names to override
// sets, each applied over a named base profile:
//
//	profiles:
//	  semicolons:
//	    base: excel
//	    delimiter: ";"
//	  pipes-unquoted:
//	    base: unix
//	    quoting: none
//	    delimiter: "|"
//	    escape: "\\"
package dsv

import (
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// profileDoc is the top-level shape of a profile file.
type profileDoc struct {
	Profiles map[string]profileSpec `yaml:"profiles"`
}

// profileSpec is one named profile: a base plus optional overrides.
// Single-character fields are spelled as strings in YAML; an explicit
// empty string for quote or escape disables the character.
type profileSpec struct {
	Base             string  `yaml:"base"`
	Delimiter        *string `yaml:"delimiter"`
	Quote            *string `yaml:"quote"`
	Escape           *string `yaml:"escape"`
	DoubleQuote      *bool   `yaml:"doublequote"`
	SkipInitialSpace *bool   `yaml:"skipinitialspace"`
	LineTerminator   *string `yaml:"lineterminator"`
	Quoting          *string `yaml:"quoting"`
}

// LoadProfiles reads a YAML profile document and registers every
// profile it defines. Profiles are registered in an unspecified order;
// a profile may not use another profile from the same document as its
// base.
func LoadProfiles(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("dsv: invalid profile document: %w", err)
	}
	for name, spec := range doc.Profiles {
		d, err := spec.resolve()
		if err != nil {
			return fmt.Errorf("dsv: profile %q: %w", name, err)
		}
		if err := Register(name, d); err != nil {
			return fmt.Errorf("dsv: profile %q: %w", name, err)
		}
	}
	return nil
}

// resolve builds the dialect from the base profile and the overrides.
func (spec profileSpec) resolve() (Dialect, error) {
	base := spec.Base
	if base == "" {
		base = "excel"
	}
	var o Overrides
	if spec.Delimiter != nil {
		r, cErr := oneRune("delimiter", *spec.Delimiter, false)
		if cErr != nil {
			return Dialect{}, cErr
		}
		o.Delimiter = &r
	}
	if spec.Quote != nil {
		r, cErr := oneRune("quote", *spec.Quote, true)
		if cErr != nil {
			return Dialect{}, cErr
		}
		o.Quote = &r
	}
	if spec.Escape != nil {
		r, cErr := oneRune("escape", *spec.Escape, true)
		if cErr != nil {
			return Dialect{}, cErr
		}
		o.Escape = &r
	}
	o.DoubleQuote = spec.DoubleQuote
	o.SkipInitialSpace = spec.SkipInitialSpace
	o.LineTerminator = spec.LineTerminator
	if spec.Quoting != nil {
		q, qErr := ParseQuoting(*spec.Quoting)
		if qErr != nil {
			return Dialect{}, qErr
		}
		o.Quoting = &q
	}
	d, err := GetWith(base, o)
	if err != nil {
		return Dialect{}, err
	}
	return d, nil
}

// oneRune decodes a single-character profile field. The empty string is
// permitted only where it means "disabled".
func oneRune(field, s string, emptyOK bool) (rune, error) {
	if s == "" {
		if emptyOK {
			return 0, nil
		}
		return 0, &DialectError{Field: field, Message: "must not be empty"}
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, &DialectError{Field: field, Message: "must be a single character"}
	}
	return r, nil
}
