package dbsource

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/dbsource/internal/adapters"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildSnapshotFailed    = "failed to build snapshot from database rows"
	logMsgSnapshotLoaded         = "snapshot loaded"
	logMsgChangesRecorded        = "changes recorded"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "dbsource operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrTable                 = "table"
	logAttrRowCount              = "row_count"
	logAttrChangeCount           = "change_count"
	logAttrDurationMS            = "duration_ms"
	logActionTable               = "table"
	logActionRequest             = "request"

	// MetricQueryDuration records how long loading a snapshot from the database took.
	MetricQueryDuration = "dbsource_query_duration"

	// MetricDatabaseErrors counts failed snapshot loads.
	MetricDatabaseErrors = "dbsource_database_errors_total"

	labelAction = "action"
	labelReason = "reason"
)

// TableSpec names the table to snapshot. PrimaryKey is required for recording changes and orders the rows.
// An empty Columns selects every column in table order.
type TableSpec struct {
	Name       string
	PrimaryKey []string
	Columns    []string
}

// Source loads table and request snapshots from a database.
type Source struct {
	db               adapters.DBAdapter
	dialect          string
	logger           Logger
	metricsCollector MetricsCollector
}

// NewSourceFromPGXPool creates a new Source using a pgx Pool with optional configuration.
func NewSourceFromPGXPool(db *pgxpool.Pool, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewPGXAdapter(db), options)
}

// NewSourceFromSQLDB creates a new Source using a sql.DB with optional configuration.
func NewSourceFromSQLDB(db *sql.DB, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLAdapter(db), options)
}

// NewSourceFromSQLX creates a new Source using a sqlx.DB with optional configuration.
func NewSourceFromSQLX(db *sqlx.DB, options ...Option) (Source, error) {
	if db == nil {
		return Source{}, ErrNilDatabaseConnection
	}

	return newSource(adapters.NewSQLXAdapter(db), options)
}

func newSource(db adapters.DBAdapter, options []Option) (Source, error) {
	s := Source{
		db:      db,
		dialect: DialectPostgres,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Source{}, err
		}
	}

	return s, nil
}

// Table loads a snapshot of the table described by spec, ordered by its primary key.
// Column and primary key names are upper-cased.
func (s Source) Table(ctx context.Context, spec TableSpec) (data.Table, error) {
	sqlQuery, buildQueryErr := s.buildSelectQuery(spec)
	if buildQueryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error(), logAttrTable, spec.Name)
		}

		return data.Table{}, buildQueryErr
	}

	columns, rows, err := s.load(ctx, logActionTable, sqlQuery)
	if err != nil {
		return data.Table{}, err
	}

	table, buildErr := data.NewTable(spec.Name, columns, upperCased(spec.PrimaryKey), rows)
	if buildErr != nil {
		s.logSnapshotFailure(buildErr, logActionTable)
		return data.Table{}, errors.Join(ErrBuildingSnapshotFailed, buildErr)
	}

	s.logOperation(logMsgSnapshotLoaded, logAttrTable, spec.Name, logAttrRowCount, table.NumberOfRows())

	return table, nil
}

// Request loads the result of an arbitrary SQL query. The args are passed to the driver as bind values.
func (s Source) Request(ctx context.Context, sqlQuery string, args ...any) (data.Request, error) {
	columns, rows, err := s.load(ctx, logActionRequest, sqlQuery, args...)
	if err != nil {
		return data.Request{}, err
	}

	request, buildErr := data.NewRequest(sqlQuery, columns, rows)
	if buildErr != nil {
		s.logSnapshotFailure(buildErr, logActionRequest)
		return data.Request{}, errors.Join(ErrBuildingSnapshotFailed, buildErr)
	}

	s.logOperation(logMsgSnapshotLoaded, logAttrQuery, sqlQuery, logAttrRowCount, request.NumberOfRows())

	return request, nil
}

// buildSelectQuery builds the snapshot query for a table.
func (s Source) buildSelectQuery(spec TableSpec) (string, error) {
	if spec.Name == "" {
		return "", ErrEmptyTableNameSupplied
	}

	selection := goqu.Dialect(s.dialect).From(spec.Name)

	if len(spec.Columns) > 0 {
		columns := make([]any, 0, len(spec.Columns))
		for _, column := range spec.Columns {
			columns = append(columns, goqu.C(column))
		}

		selection = selection.Select(columns...)
	}

	if len(spec.PrimaryKey) > 0 {
		order := make([]exp.OrderedExpression, 0, len(spec.PrimaryKey))
		for _, column := range spec.PrimaryKey {
			order = append(order, goqu.C(column).Asc())
		}

		selection = selection.Order(order...)
	}

	sqlQuery, _, toSQLErr := selection.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// load executes the query and reads all rows with upper-cased column names.
func (s Source) load(ctx context.Context, action string, sqlQuery string, args ...any) ([]string, [][]any, error) {
	rows, queryErr := s.executeQuery(ctx, action, sqlQuery, args...)
	if queryErr != nil {
		return nil, nil, queryErr
	}
	defer s.closeRows(rows)

	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		s.logScanFailure(columnsErr, action)
		return nil, nil, errors.Join(ErrScanningDBRowFailed, columnsErr)
	}

	result, scanErr := s.processQueryResults(rows, action)
	if scanErr != nil {
		return nil, nil, scanErr
	}

	return upperCased(columns), result, nil
}

// executeQuery executes the SQL query and records its timing.
func (s Source) executeQuery(ctx context.Context, action string, sqlQuery string, args ...any) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, action, duration)

	if s.metricsCollector != nil {
		s.metricsCollector.RecordDuration(MetricQueryDuration, duration, map[string]string{labelAction: action})
	}

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		s.countError(action, "query")

		return nil, errors.Join(ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Source) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults reads the values of every row.
func (s Source) processQueryResults(rows adapters.DBRows, action string) ([][]any, error) {
	result := make([][]any, 0)

	for rows.Next() {
		values, rowScanErr := rows.Values()
		if rowScanErr != nil {
			s.logScanFailure(rowScanErr, action)
			return nil, errors.Join(ErrScanningDBRowFailed, rowScanErr)
		}

		result = append(result, values)
	}

	if iterationErr := rows.Err(); iterationErr != nil {
		s.logScanFailure(iterationErr, action)
		return nil, errors.Join(ErrScanningDBRowFailed, iterationErr)
	}

	return result, nil
}

func (s Source) logScanFailure(err error, action string) {
	if s.logger != nil {
		s.logger.Error(logMsgScanRowFailed, logAttrError, err.Error())
	}

	s.countError(action, "scan")
}

func (s Source) logSnapshotFailure(err error, action string) {
	if s.logger != nil {
		s.logger.Error(logMsgBuildSnapshotFailed, logAttrError, err.Error())
	}

	s.countError(action, "snapshot")
}

func (s Source) countError(action, reason string) {
	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(MetricDatabaseErrors, map[string]string{labelAction: action, labelReason: reason})
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s Source) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s Source) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func upperCased(names []string) []string {
	upper := make([]string, len(names))

	for i, name := range names {
		upper[i] = strings.ToUpper(name)
	}

	return upper
}
