package dsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffer_Comma(t *testing.T) {
	s := NewSniffer("name,age,city\nalice,30,berlin\nbob,25,oslo\n")
	assert.Equal(t, ',', s.DetectDelimiter())
	assert.True(t, s.HasHeader())
}

func TestSniffer_Tab(t *testing.T) {
	s := NewSniffer("a\tb\tc\n1\t2\t3\n")
	assert.Equal(t, '\t', s.DetectDelimiter())
}

func TestSniffer_Semicolon(t *testing.T) {
	s := NewSniffer("x;y\n1;2\n3;4\n")
	assert.Equal(t, ';', s.DetectDelimiter())
}

func TestSniffer_Pipe(t *testing.T) {
	s := NewSniffer("col|col|col\nv|v|v\n")
	assert.Equal(t, '|', s.DetectDelimiter())
}

func TestSniffer_ConsistencyBeatsFrequency(t *testing.T) {
	// More semicolons on one line, but commas appear consistently.
	s := NewSniffer("a,b\nc;d;e;f;g,h\ni,j\n")
	assert.Equal(t, ',', s.DetectDelimiter())
}

func TestSniffer_QuotedDelimitersIgnored(t *testing.T) {
	s := NewSniffer("\"a,b,c\";x\n\"d,e\";y\n")
	assert.Equal(t, ';', s.DetectDelimiter())
}

func TestSniffer_NoHeaderWhenFirstRowNumeric(t *testing.T) {
	s := NewSniffer("1,2,3\n4,5,6\n")
	assert.False(t, s.HasHeader())
}

func TestSniffer_SingleLineHasNoHeader(t *testing.T) {
	s := NewSniffer("a,b,c\n")
	assert.False(t, s.HasHeader())
}

func TestSniffer_EmptySampleDefaultsToComma(t *testing.T) {
	s := NewSniffer("")
	assert.Equal(t, ',', s.DetectDelimiter())
}

func TestSniffer_DialectUsable(t *testing.T) {
	s := NewSniffer("a\tb\n1\t2\n")
	d := s.Dialect()
	assert.Equal(t, '\t', d.Delimiter)
	assert.NoError(t, d.Validate())
}
