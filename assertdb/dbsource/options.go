package dbsource

import (
	"fmt"
	"time"
)

const (
	// DialectPostgres is the default dialect.
	DialectPostgres = "postgres"

	// DialectSQLite3 builds queries for SQLite.
	DialectSQLite3 = "sqlite3"
)

// Logger interface for SQL query logging, loaded snapshots, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting query durations and database errors.
// soft.MetricsCollector implementations satisfy it as well.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring Source.
type Option func(*Source) error

// WithDialect sets the SQL dialect used to build table snapshot queries.
func WithDialect(dialect string) Option {
	return func(s *Source) error {
		switch dialect {
		case DialectPostgres, DialectSQLite3:
			s.dialect = dialect
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
		}
	}
}

// WithLogger sets the logger for the Source.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing
// Info level: loaded snapshots with their row counts and recorded changes
// Warn level: failures closing database rows
// Error level: failures that cause a snapshot to fail.
func WithLogger(logger Logger) Option {
	return func(s *Source) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Source.
// The collector receives query durations and database error counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Source) error {
		s.metricsCollector = collector
		return nil
	}
}
