package dsv

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shapestone/shape-dsv/internal/quoting"
)

// Writer formats rows and hands them to a sink. The encoding strategy is
// selected once at construction from the dialect's quoting mode and
// doublequote flag; an infeasible combination fails here, not at the
// first row.
//
// WriteRow calls must be issued sequentially; output order equals call
// order. The line terminator is written before every row after the
// first, never after the last.
type Writer struct {
	sink Sink
	enc  quoting.Encoder
	fmtr *quoting.Formatter
	err  error
}

// NewWriter creates a Writer over sink for the dialect.
func NewWriter(sink Sink, d Dialect) (*Writer, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	enc, err := quoting.NewEncoder(quoting.Dialect{
		Delimiter:   d.Delimiter,
		Quote:       d.Quote,
		Escape:      d.Escape,
		DoubleQuote: d.DoubleQuote,
		Mode:        quoting.Mode(d.Quoting),
	})
	if err != nil {
		return nil, err
	}
	return &Writer{
		sink: sink,
		enc:  enc,
		fmtr: quoting.NewFormatter(d.Delimiter, d.LineTerminator),
	}, nil
}

// WriteRow encodes and writes one row. Values may be strings or numeric
// types; under QuoteNonNumeric the numeric values take the unforced
// quoting path. The sink's count is returned as received. A sink failure
// is fatal to the writer.
func (w *Writer) WriteRow(ctx context.Context, row []any) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	fields := make([]string, len(row))
	for i, v := range row {
		text, numeric := formatValue(v)
		fields[i] = w.enc(text, numeric)
	}
	n, err := w.sink.Write(ctx, w.fmtr.FormatRow(fields))
	if err != nil {
		w.err = err
		return n, err
	}
	return n, nil
}

// WriteStrings is WriteRow for rows that are plain text fields.
func (w *Writer) WriteStrings(ctx context.Context, row []string) (int, error) {
	values := make([]any, len(row))
	for i, s := range row {
		values[i] = s
	}
	return w.WriteRow(ctx, values)
}

// WriteRows writes each row in order.
func (w *Writer) WriteRows(ctx context.Context, rows [][]any) error {
	for _, row := range rows {
		if _, err := w.WriteRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders a field value as text and reports whether it is
// numeric for the QuoteNonNumeric dispatch.
func formatValue(v any) (text string, numeric bool) {
	switch v := v.(type) {
	case string:
		return v, false
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return fmt.Sprint(v), false
	}
}
