// cmd/schemasync/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string // Persistent flag for the config file path

	rootCmd = &cobra.Command{
		Use:   "schemasync",
		Short: "schemasync CLI for connection checks and table inspection",
		Long: `The schemasync CLI is a small companion to the schemasync library:
it verifies database connectivity and inspects the live structure
of reconciled tables.`,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: '%s'\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default is ./schemasync.yaml or $HOME/.schemasync/schemasync.yaml)")
}

func main() {
	Execute()
}
