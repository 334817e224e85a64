package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/assertdb-go/assertdb"
	"github.com/AntonStoeckl/assertdb-go/assertdb/dbsource"
	"github.com/AntonStoeckl/assertdb-go/assertdb/promadapters"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
	"github.com/AntonStoeckl/assertdb-go/internal/config"
	"github.com/AntonStoeckl/assertdb-go/internal/suite"
)

// ErrChecksFailed is returned when at least one check of the suite failed.
var ErrChecksFailed = errors.New("checks failed")

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check SUITE",
		Short: "Run a check suite against the database",
		Long:  `Loads every table and request named in the suite, applies all checks softly and prints every failure.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			jsonMode, _ := cmd.Flags().GetBool("json")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			return runCheck(cmd.Context(), cfg, args[0], checkOutput{
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
				json:        jsonMode,
				metricsFile: metricsFile,
			})
		},
	}

	checkCmd.Flags().Bool("json", false, "Print the failure report as JSON")
	checkCmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this file (textfile collector format)")

	return checkCmd
}

type checkOutput struct {
	stdout      io.Writer
	stderr      io.Writer
	json        bool
	metricsFile string
}

// loadConfig reads the environment and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()

	if flags.Changed("dsn") {
		cfg.DSN, _ = flags.GetString("dsn")
	}

	if flags.Changed("adapter") {
		cfg.Adapter, _ = flags.GetString("adapter")
	}

	if flags.Changed("max-open-conns") {
		cfg.MaxOpenConns, _ = flags.GetInt("max-open-conns")
	}

	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = slog.LevelDebug.String()
	}

	return cfg, cfg.Validate()
}

func runCheck(ctx context.Context, cfg config.Config, suitePath string, out checkOutput) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(out.stderr, &slog.HandlerOptions{Level: level}))
	registry := prometheus.NewRegistry()
	metrics := promadapters.NewMetricsCollector(registry)

	checks, err := suite.Load(suitePath)
	if err != nil {
		return err
	}

	connection, err := config.Open(ctx, cfg, dbsource.WithLogger(logger), dbsource.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer func() {
		_ = connection.Close() // ignore error
	}()

	softly, err := assertdb.NewSoftAssertions(soft.WithLogger(logger), soft.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer softly.End()

	runErr := suite.NewRunner(connection.Source, suite.WithLogger(logger)).Run(ctx, checks, softly)

	if err := report(softly, checks.Name, out); err != nil {
		return err
	}

	if out.metricsFile != "" {
		if err := prometheus.WriteToTextfile(out.metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if len(softly.Errors()) > 0 {
		return ErrChecksFailed
	}

	return nil
}

// report prints the failures, or the JSON report, to stdout.
// AssertAll is called for its summary log record.
func report(softly *assertdb.SoftAssertions, suiteName string, out checkOutput) error {
	_ = softly.AssertAll()

	if out.json {
		document, err := softly.Session().ReportJSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out.stdout, string(document))

		return err
	}

	failures := softly.Errors()

	for _, failure := range failures {
		if _, err := fmt.Fprintf(out.stdout, "FAIL %s (%s)\n", failure.Error(), failure.Method); err != nil {
			return err
		}
	}

	if suiteName == "" {
		suiteName = "suite"
	}

	_, err := fmt.Fprintf(out.stdout, "%s: %d failed checks\n", suiteName, len(failures))

	return err
}
