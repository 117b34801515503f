package dsv

import (
	"context"
	"io"

	"github.com/shapestone/shape-dsv/internal/assembler"
	"github.com/shapestone/shape-dsv/internal/scanner"
)

// Reader streams rows from a chunked source under a dialect. It
// processes exactly one stream, once, forward-only: it is not
// restartable, not seekable, and must not be driven by more than one
// consumer at a time.
//
// The reader keeps one chunk read in flight ahead of consumption, so
// source latency overlaps with row assembly. Close cancels that
// read-ahead and awaits it.
//
// Example:
//
//	src := dsv.NewReaderSource(file)
//	r, err := dsv.NewReader(ctx, src, dialect)
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	for {
//	    row, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error; the pass is over
//	    }
//	    // process row
//	}
type Reader struct {
	scn *scanner.Scanner
	asm *assembler.Assembler
}

// NewReader creates a Reader over src with the default chunk size. The
// context bounds every chunk read the reader issues; cancelling it
// aborts the pass.
func NewReader(ctx context.Context, src Source, d Dialect) (*Reader, error) {
	return NewReaderSize(ctx, src, d, 0)
}

// NewReaderSize is NewReader with an explicit chunk size. chunkSize <= 0
// selects the default.
func NewReaderSize(ctx context.Context, src Source, d Dialect, chunkSize int) (*Reader, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	scn := scanner.New(ctx, scanner.Dialect{
		Delimiter: d.Delimiter,
		Quote:     d.Quote,
		Escape:    d.Escape,
	}, src, chunkSize)
	asm := assembler.New(scn, assembler.Options{
		SkipInitialSpace: d.SkipInitialSpace,
	})
	return &Reader{scn: scn, asm: asm}, nil
}

// Read returns the next row. It returns io.EOF after the final row. A
// MalformedRowError or source failure is fatal: the same error is
// returned on every subsequent call and the pass cannot be resumed.
func (r *Reader) Read() ([]string, error) {
	return r.asm.Next()
}

// ReadAll consumes the remaining rows.
func (r *Reader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Fieldnames returns the first row of the stream, captured when it was
// produced and read-only afterward. Calling it before any row has been
// read returns ErrNoFieldnames.
func (r *Reader) Fieldnames() ([]string, error) {
	return r.asm.Fieldnames()
}

// Close releases the reader. An in-flight chunk read is cancelled and
// awaited, so no background work outlives the reader. Close is
// idempotent and safe to call before EOF.
func (r *Reader) Close() error {
	return r.scn.Close()
}
