package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-dsv/pkg/dsv"
)

// newConvertCmd re-serializes a DSV stream from one dialect to another.
func newConvertCmd() *cobra.Command {
	var (
		fromName  string
		toName    string
		inPath    string
		outPath   string
		profiles  string
		chunkSize int
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-serialize a DSV stream from one dialect to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadProfileFile(profiles); err != nil {
				return err
			}
			from, err := dsv.Get(fromName)
			if err != nil {
				return err
			}
			to, err := dsv.Get(toName)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer closeIn()

			out, closeOut, err := openOutput(outPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rows, err := convert(ctx, in, out, from, to, chunkSize)
			if err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
			log.Infof("converted %d rows from %q to %q", rows, fromName, toName)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromName, "from", "excel", "input dialect profile")
	cmd.Flags().StringVar(&toName, "to", "unix", "output dialect profile")
	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "input file (- for stdin; .gz is decompressed)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file (- for stdout; .gz is compressed)")
	cmd.Flags().StringVar(&profiles, "profiles", "", "YAML profile document to load before lookup")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in characters (0 for default)")
	return cmd
}

// convert streams rows between the two dialects.
func convert(ctx context.Context, in io.Reader, out io.Writer, from, to dsv.Dialect, chunkSize int) (int, error) {
	r, err := dsv.NewReaderSize(ctx, dsv.NewReaderSource(in), from, chunkSize)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w, err := dsv.NewWriter(dsv.NewWriterSink(out), to)
	if err != nil {
		return 0, err
	}

	rows := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if _, err := w.WriteStrings(ctx, row); err != nil {
			return rows, err
		}
		rows++
	}
}

// loadProfileFile registers profiles from a YAML document, if given.
func loadProfileFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Debugf("loading dialect profiles from %s", path)
	return dsv.LoadProfiles(f)
}

// openInput opens path for reading, transparently decompressing .gz
// files. "-" selects stdin.
func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return zr, func() error {
		if err := zr.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

// openOutput opens path for writing, compressing .gz files. "-" selects
// stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	zw := gzip.NewWriter(f)
	return zw, func() error {
		if err := zw.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
