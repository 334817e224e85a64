package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assertdb",
		Short:         "assertdb checks database content",
		Long:          `assertdb loads tables and query results from a database and checks them against a YAML suite, reporting every failure at once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().String("dsn", "", "Database DSN (overrides ASSERTDB_DSN)")
	rootCmd.PersistentFlags().String("adapter", "", "Database adapter: pgx, sql, sqlx or sqlite (overrides ASSERTDB_ADAPTER)")
	rootCmd.PersistentFlags().Int("max-open-conns", 0, "Maximum open connections (overrides ASSERTDB_MAX_OPEN_CONNS)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level to stderr")

	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}
