package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-dsv/pkg/dsv"
)

// sniffSampleSize bounds how much input the sniffer sees.
const sniffSampleSize = 64 * 1024

// newSniffCmd guesses the dialect of a DSV file.
func newSniffCmd() *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:   "sniff",
		Short: "Guess the dialect of a DSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer closeIn()

			sample := make([]byte, sniffSampleSize)
			n, err := io.ReadFull(in, sample)
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return err
			}

			s := dsv.NewSniffer(string(sample[:n]))
			fmt.Fprintf(cmd.OutOrStdout(), "delimiter: %q\n", s.DetectDelimiter())
			fmt.Fprintf(cmd.OutOrStdout(), "header: %t\n", s.HasHeader())
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "input file (- for stdin; .gz is decompressed)")
	return cmd
}

// newProfilesCmd lists the registered dialect profiles.
func newProfilesCmd() *cobra.Command {
	var profiles string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List registered dialect profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadProfileFile(profiles); err != nil {
				return err
			}
			for _, name := range dsv.Names() {
				d, err := dsv.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s delimiter=%q quoting=%s terminator=%q\n",
					name, d.Delimiter, d.Quoting, d.LineTerminator)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profiles, "profiles", "", "YAML profile document to load before listing")
	return cmd
}
