// Package dsv incrementally parses and serializes delimiter-separated
// text (CSV and dialect variants) from and to chunked character
// streams, without holding the whole input in memory.
//
// The read path is Source -> scanner -> row assembler -> rows: the
// scanner classifies each character into a token under the dialect
// while keeping one chunk read in flight ahead of consumption, and the
// assembler drives a five-state machine that accumulates characters
// into fields and fields into rows. The write path is rows -> quoting
// engine -> row formatter -> Sink: one of six field-encoding strategies
// is selected when the writer is constructed, and the formatter joins
// encoded fields and lazily pre-pends the line terminator between rows.
// The two paths share no state.
//
// # Streaming
//
// Readers and writers operate on the Source and Sink chunk contracts,
// so arbitrarily large documents stream through a fixed-size window.
// Adapters for io.Reader, io.Writer, and in-memory strings are
// provided.
//
//	src := dsv.NewReaderSource(file)
//	r, err := dsv.NewReader(ctx, src, dialect)
//
// # Dialects
//
// A Dialect bundles delimiter, quote, escape, doublequote,
// skipinitialspace, line terminator, and quoting mode. Named profiles
// ("excel", "excel-tab", "unix") live in a registry, take per-field
// overrides, and can be extended from YAML profile documents.
//
// # Concurrency
//
// A reader or writer instance serves one stream and one consumer. The
// only internal concurrency is the scanner's one-chunk read-ahead,
// which Close cancels and awaits.
package dsv

import (
	"context"
	"strings"
)

// Parse parses a complete document held in memory and returns its rows.
//
// Example:
//
//	d, _ := dsv.Get("excel")
//	rows, err := dsv.Parse(ctx, "a,b\r\n1,2\r\n", d)
func Parse(ctx context.Context, input string, d Dialect) ([][]string, error) {
	r, err := NewReader(ctx, NewStringSource(input), d)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}

// Format serializes rows to a string under the dialect. Fields are
// treated as text; use a Writer directly for numeric-aware quoting.
func Format(ctx context.Context, rows [][]string, d Dialect) (string, error) {
	var b strings.Builder
	w, err := NewWriter(NewWriterSink(&b), d)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if _, err := w.WriteStrings(ctx, row); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
