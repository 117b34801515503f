// Command shape-dsv converts and inspects delimiter-separated files.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("shape-dsv")

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "shape-dsv",
		Short: "Streaming dialect-aware DSV toolkit",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newSniffCmd())
	rootCmd.AddCommand(newProfilesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
