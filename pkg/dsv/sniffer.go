// Package dsv dialect detection from a sample.
package dsv

import (
	"strings"
	"unicode"
)

// Sniffer guesses the dialect of a sample of delimiter-separated text.
// Provide at least two or three lines for useful results. Detection is
// heuristic: it suggests a starting dialect, it does not validate one.
type Sniffer struct {
	sample    string
	delimiter rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a Sniffer over a sample.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.delimiter = s.detectDelimiter()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

// Dialect returns the "excel" profile with the detected delimiter
// applied.
func (s *Sniffer) Dialect() Dialect {
	s.analyze()
	d, _ := Get("excel")
	d.Delimiter = s.delimiter
	return d
}

// DetectDelimiter returns the detected field delimiter. Candidates are
// comma, tab, semicolon, and pipe.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.delimiter
}

// HasHeader reports whether the first line looks like a header row.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

func (s *Sniffer) detectDelimiter() rune {
	lines := sampleLines(s.sample)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := 0
	for _, delim := range []rune{',', '\t', ';', '|'} {
		counts := make([]int, len(lines))
		for i, line := range lines {
			counts[i] = countUnquoted(line, delim)
		}
		if counts[0] == 0 {
			continue
		}
		// Consistency across lines outweighs raw frequency.
		score := counts[0]
		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}
	return best
}

func (s *Sniffer) detectHeader() bool {
	lines := sampleLines(s.sample)
	if len(lines) < 2 {
		return false
	}
	delim := s.detectDelimiter()
	first := splitUnquoted(lines[0], delim)

	// A header is mostly non-numeric identifiers; data rows usually
	// carry at least some numbers or dates.
	headerish := 0
	for _, field := range first {
		field = strings.TrimSpace(field)
		if field != "" && !looksNumeric(field) {
			headerish++
		}
	}
	if headerish*2 <= len(first) {
		return false
	}
	for _, field := range splitUnquoted(lines[1], delim) {
		if looksNumeric(strings.TrimSpace(field)) {
			return true
		}
	}
	return headerish == len(first)
}

// sampleLines splits the sample into non-empty lines.
func sampleLines(sample string) []string {
	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// countUnquoted counts delimiter occurrences outside quoted sections.
func countUnquoted(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			count++
		}
	}
	return count
}

// splitUnquoted splits a line on the delimiter, respecting quotes.
func splitUnquoted(line string, delim rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// looksNumeric reports whether a field reads as a plain number.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	sawDigit := false
	sawDot := false
	for _, ch := range s {
		switch {
		case unicode.IsDigit(ch):
			sawDigit = true
		case ch == '.' && !sawDot:
			sawDot = true
		default:
			return false
		}
	}
	return sawDigit
}
