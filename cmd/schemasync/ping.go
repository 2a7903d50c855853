// cmd/schemasync/ping.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/schemasync"

	_ "github.com/chmenegatti/schemasync/pkg/dialects/mysql" // register driver
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify database connectivity",
	Long:  `Connects with the configured DSN and sends a ping, reporting success or the driver error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}

		db, err := schemasync.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}

		fmt.Printf("Connection to %q database OK.\n", cfg.Database.Dialect)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
