// Package scanner turns a chunked character source into a stream of
// classified tokens under a DSV dialect.
package scanner

import "fmt"

// Kind classifies a single input character.
type Kind uint8

// Token kinds, in the order the scanner checks them. Classification is
// first-match-wins: quote, escape (only when configured), CR, LF,
// delimiter, space, then generic character. For degenerate dialects where
// two special characters coincide (delimiter == quote, say) the earlier
// kind wins; that ordering is preserved from the check sequence, not a
// validated property of such dialects.
const (
	KindChar Kind = iota
	KindDelimiter
	KindQuote
	KindEscape
	KindCR
	KindLF
	KindWhitespace
	KindEOF
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "CHAR"
	case KindDelimiter:
		return "DELIMITER"
	case KindQuote:
		return "QUOTE"
	case KindEscape:
		return "ESCAPE"
	case KindCR:
		return "CR"
	case KindLF:
		return "LF"
	case KindWhitespace:
		return "WHITESPACE"
	case KindEOF:
		return "EOF"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Token is one classified input character together with its position.
// Ch is undefined for KindEOF. Line and Column are 1-indexed, except
// that an LF token reports column zero of the line it opens.
type Token struct {
	Kind   Kind
	Ch     rune
	Line   int
	Column int
}
