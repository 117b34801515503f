package dsv

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfiles(t *testing.T) {
	doc := `
profiles:
  semicolons:
    base: excel
    delimiter: ";"
    skipinitialspace: true
  pipes-unquoted:
    base: unix
    quoting: none
    delimiter: "|"
    escape: "\\"
    lineterminator: "\n"
`
	require.NoError(t, LoadProfiles(strings.NewReader(doc)))

	semi := mustGet(t, "semicolons")
	assert.Equal(t, ';', semi.Delimiter)
	assert.True(t, semi.SkipInitialSpace)
	assert.Equal(t, '"', semi.Quote, "base profile supplies the rest")
	assert.Equal(t, "\r\n", semi.LineTerminator)

	pipes := mustGet(t, "pipes-unquoted")
	assert.Equal(t, '|', pipes.Delimiter)
	assert.Equal(t, QuoteNone, pipes.Quoting)
	assert.Equal(t, '\\', pipes.Escape)
}

func TestLoadProfiles_DefaultBaseIsExcel(t *testing.T) {
	doc := `
profiles:
  just-tabs:
    delimiter: "\t"
`
	require.NoError(t, LoadProfiles(strings.NewReader(doc)))
	d := mustGet(t, "just-tabs")
	assert.Equal(t, '\t', d.Delimiter)
	assert.Equal(t, "\r\n", d.LineTerminator)
}

func TestLoadProfiles_EmptyStringDisablesQuote(t *testing.T) {
	doc := `
profiles:
  raw:
    base: excel
    quote: ""
    escape: "\\"
    quoting: none
`
	require.NoError(t, LoadProfiles(strings.NewReader(doc)))
	d := mustGet(t, "raw")
	assert.Equal(t, rune(0), d.Quote)
}

func TestLoadProfiles_UsableEndToEnd(t *testing.T) {
	doc := `
profiles:
  colons:
    base: excel
    delimiter: ":"
`
	require.NoError(t, LoadProfiles(strings.NewReader(doc)))
	d := mustGet(t, "colons")

	rows, err := Parse(context.Background(), "a:b\nc:d\n", d)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestLoadProfiles_Errors(t *testing.T) {
	cases := map[string]string{
		"not yaml": `profiles: [`,
		"multi-char delimiter": `
profiles:
  bad:
    delimiter: "ab"
`,
		"empty delimiter": `
profiles:
  bad:
    delimiter: ""
`,
		"unknown quoting": `
profiles:
  bad:
    quoting: sometimes
`,
		"unknown base": `
profiles:
  bad:
    base: nonesuch
`,
	}
	for name, doc := range cases {
		assert.Error(t, LoadProfiles(strings.NewReader(doc)), name)
	}
}
