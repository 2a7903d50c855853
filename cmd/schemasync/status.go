// cmd/schemasync/status.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/schemasync"
)

var statusCmd = &cobra.Command{
	Use:   "status <table>",
	Short: "Show the live structure of a table",
	Long:  `Introspects the named table and prints its columns, primary key, unique indexes and foreign keys as the engine reports them.`,
	Args:  cobra.ExactArgs(1),
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

		table := args[0]
		source := db.DataSource()
		desc, err := source.Dialect().DescribeTable(cmd.Context(), source, table)
		if err != nil {
			return fmt.Errorf("describing table %s: %w", table, err)
		}
		if desc == nil {
			fmt.Printf("Table %q does not exist.\n", table)
			return nil
		}

		fmt.Printf("Table %s:\n", desc.Name)
		for _, col := range desc.Columns {
			attrs := []string{col.Type}
			if !col.Nullable {
				attrs = append(attrs, "NOT NULL")
			}
			if col.Extra != "" {
				attrs = append(attrs, col.Extra)
			}
			if col.Default != nil {
				attrs = append(attrs, "DEFAULT "+*col.Default)
			}
			fmt.Printf("  %-20s %s\n", col.Name, strings.Join(attrs, " "))
		}
		if len(desc.PrimaryKey) > 0 {
			fmt.Printf("Primary key: %s\n", strings.Join(desc.PrimaryKey, ", "))
		}
		if len(desc.UniqueKeys) > 0 {
			fmt.Printf("Unique keys: %s\n", strings.Join(desc.UniqueKeys, ", "))
		}
		if len(desc.ForeignKeys) > 0 {
			fmt.Printf("Foreign keys: %s\n", strings.Join(desc.ForeignKeys, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
