package dsv

import (
	"context"
	"fmt"
	"sort"
)

// ExtrasAction selects how DictWriter treats row keys that are not in
// the fieldnames.
type ExtrasAction int

const (
	// ExtrasRaise errors on unexpected keys (default).
	ExtrasRaise ExtrasAction = iota
	// ExtrasIgnore silently drops unexpected keys.
	ExtrasIgnore
)

// DictWriterOptions configures the header-keyed writer.
type DictWriterOptions struct {
	// RestVal fills columns absent from a row. Defaults to the empty
	// string.
	RestVal any

	// Extras selects the treatment of keys outside the fieldnames.
	Extras ExtrasAction
}

// DictWriter writes rows keyed by field name, emitting values in
// fieldname order. Like DictReader it is an adapter over the row
// writer.
type DictWriter struct {
	w          *Writer
	fieldnames []string
	opts       DictWriterOptions
}

// NewDictWriter creates a DictWriter over sink. fieldnames fixes both
// the column order and the set of permitted row keys.
func NewDictWriter(sink Sink, fieldnames []string, d Dialect, opts DictWriterOptions) (*DictWriter, error) {
	if len(fieldnames) == 0 {
		return nil, &DialectError{Field: "fieldnames", Message: "fieldnames must not be empty"}
	}
	w, err := NewWriter(sink, d)
	if err != nil {
		return nil, err
	}
	if opts.RestVal == nil {
		opts.RestVal = ""
	}
	return &DictWriter{w: w, fieldnames: fieldnames, opts: opts}, nil
}

// WriteHeader writes the fieldnames as a row.
func (dw *DictWriter) WriteHeader(ctx context.Context) (int, error) {
	row := make([]any, len(dw.fieldnames))
	for i, name := range dw.fieldnames {
		row[i] = name
	}
	return dw.w.WriteRow(ctx, row)
}

// WriteRow writes one keyed row in fieldname order. Missing keys take
// the configured rest value; unexpected keys error or are dropped per
// the Extras action.
func (dw *DictWriter) WriteRow(ctx context.Context, row map[string]any) (int, error) {
	line := make([]any, len(dw.fieldnames))
	used := 0
	for i, name := range dw.fieldnames {
		if v, ok := row[name]; ok {
			line[i] = v
			used++
		} else {
			line[i] = dw.opts.RestVal
		}
	}
	if dw.opts.Extras == ExtrasRaise && used < len(row) {
		return 0, fmt.Errorf("dsv: row contains keys not in fieldnames: %v", dw.extraKeys(row))
	}
	return dw.w.WriteRow(ctx, line)
}

// WriteRows writes each row in order.
func (dw *DictWriter) WriteRows(ctx context.Context, rows []map[string]any) error {
	for _, row := range rows {
		if _, err := dw.WriteRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// extraKeys lists the offending keys, sorted for stable messages.
func (dw *DictWriter) extraKeys(row map[string]any) []string {
	known := make(map[string]bool, len(dw.fieldnames))
	for _, name := range dw.fieldnames {
		known[name] = true
	}
	var extras []string
	for key := range row {
		if !known[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return extras
}
