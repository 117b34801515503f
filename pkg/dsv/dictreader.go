package dsv

import (
	"context"
	"io"
)

// DictReaderOptions configures the header-keyed row view.
type DictReaderOptions struct {
	// Fieldnames supplies the column names up front. When nil, the
	// first row of the stream is consumed as the header instead of
	// being returned as data.
	Fieldnames []string

	// RestKey, when non-empty, collects fields beyond the fieldnames
	// under this key as a []string. Extra fields are dropped otherwise.
	RestKey string

	// RestVal fills columns missing from a short row.
	RestVal any

	// ChunkSize overrides the reader's chunk size. Zero selects the
	// default.
	ChunkSize int
}

// DictReader wraps a Reader and yields rows keyed by field name. This is
// an adapter over the row reader; the core state machines are unaware of
// it.
type DictReader struct {
	r    *Reader
	opts DictReaderOptions
}

// NewDictReader creates a DictReader over src.
func NewDictReader(ctx context.Context, src Source, d Dialect, opts DictReaderOptions) (*DictReader, error) {
	r, err := NewReaderSize(ctx, src, d, opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	return &DictReader{r: r, opts: opts}, nil
}

// Fieldnames returns the column names: the ones supplied up front, or
// the header row once it has been read. Before either is available it
// returns ErrNoFieldnames.
func (dr *DictReader) Fieldnames() ([]string, error) {
	if dr.opts.Fieldnames != nil {
		return dr.opts.Fieldnames, nil
	}
	return dr.r.Fieldnames()
}

// Read returns the next data row keyed by field name. It returns io.EOF
// after the final row. Short rows are padded with RestVal; long rows
// overflow into RestKey when one is configured.
func (dr *DictReader) Read() (map[string]any, error) {
	for {
		row, err := dr.r.Read()
		if err != nil {
			return nil, err
		}
		if dr.opts.Fieldnames == nil {
			// First row is the header, not data.
			dr.opts.Fieldnames = row
			continue
		}
		return dr.makeDict(row), nil
	}
}

// ReadAll consumes the remaining rows.
func (dr *DictReader) ReadAll() ([]map[string]any, error) {
	var rows []map[string]any
	for {
		row, err := dr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Close releases the underlying reader.
func (dr *DictReader) Close() error {
	return dr.r.Close()
}

func (dr *DictReader) makeDict(row []string) map[string]any {
	names := dr.opts.Fieldnames
	d := make(map[string]any, len(names))
	for i, name := range names {
		if i < len(row) {
			d[name] = row[i]
		} else {
			d[name] = dr.opts.RestVal
		}
	}
	if len(row) > len(names) && dr.opts.RestKey != "" {
		rest := make([]string, len(row)-len(names))
		copy(rest, row[len(names):])
		d[dr.opts.RestKey] = rest
	}
	return d
}
