package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "postwingctl",
	Short: "Operational tooling for the postwing daemon",
	Long: `postwingctl talks directly to the postwing database. It can submit
messages to the delivery queue without going through the HTTP API,
which is useful for backfills and for testing worker deployments.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
