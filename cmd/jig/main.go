package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "jig",
		Short: "Java code intelligence for editors and agents",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log more; repeat for debug output")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newTypeAtCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newMCPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
