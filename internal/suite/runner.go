package suite

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/AntonStoeckl/assertdb-go/assertdb"
	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/dbsource"
)

var ErrLoadingSnapshotFailed = errors.New("loading a snapshot failed")

const (
	logMsgTableChecked   = "table checked"
	logMsgRequestChecked = "request checked"
	logAttrTable         = "table"
	logAttrSQL           = "sql"
	logAttrRowCount      = "row_count"
)

// Loader loads the snapshots a suite checks. dbsource.Source implements it.
type Loader interface {
	Table(ctx context.Context, spec dbsource.TableSpec) (data.Table, error)
	Request(ctx context.Context, sql string, args ...any) (data.Request, error)
}

// Logger interface for progress reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Runner applies suites to snapshots from a Loader.
type Runner struct {
	loader Loader
	logger Logger
}

// Option defines a functional option for configuring Runner.
type Option func(*Runner)

// WithLogger sets the logger for the Runner.
func WithLogger(logger Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func NewRunner(loader Loader, options ...Option) Runner {
	r := Runner{loader: loader}

	for _, option := range options {
		option(&r)
	}

	return r
}

// Run loads every table and request of the suite and applies its checks through softly.
// Failed checks are collected by softly; the returned error reports snapshots that could not be loaded
// and checks that could not be applied, e.g. a row index out of range.
func (r Runner) Run(ctx context.Context, suite Suite, softly *assertdb.SoftAssertions) error {
	var errs []error

	for _, check := range suite.Tables {
		table, err := r.loader.Table(ctx, dbsource.TableSpec{
			Name:       check.Name,
			PrimaryKey: check.PrimaryKey,
			Columns:    check.Columns,
		})
		if err != nil {
			errs = append(errs, errors.Join(ErrLoadingSnapshotFailed, fmt.Errorf("table %q: %w", check.Name, err)))
			continue
		}

		errs = append(errs, guard(func() { checkTable(softly.AssertThatTable(table), check.Checks) }))

		if r.logger != nil {
			r.logger.Debug(logMsgTableChecked, logAttrTable, check.Name, logAttrRowCount, table.NumberOfRows())
		}
	}

	for _, check := range suite.Requests {
		request, err := r.loader.Request(ctx, check.SQL, check.Args...)
		if err != nil {
			errs = append(errs, errors.Join(ErrLoadingSnapshotFailed, fmt.Errorf("request %q: %w", check.SQL, err)))
			continue
		}

		errs = append(errs, guard(func() { checkRequest(softly.AssertThatRequest(request), check.Checks) }))

		if r.logger != nil {
			r.logger.Debug(logMsgRequestChecked, logAttrSQL, check.SQL, logAttrRowCount, request.NumberOfRows())
		}
	}

	return errors.Join(errs...)
}

// guard turns a navigation error raised by a check into an ErrInvalidCheck error.
func guard(apply func()) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		recoveredErr, ok := recovered.(error)
		if !ok {
			panic(recovered)
		}

		err = errors.Join(ErrInvalidCheck, recoveredErr)
	}()

	apply()

	return nil
}

func checkTable(table *assertdb.TableAssert, checks Checks) {
	if checks.Description != "" {
		table.As(checks.Description)
	}

	if checks.NumberOfRows != nil {
		table.HasNumberOfRows(*checks.NumberOfRows)
	}

	if len(checks.ColumnNames) > 0 {
		table.HasColumns(checks.ColumnNames...)
	}

	for _, rowCheck := range checks.Rows {
		checkRow(table.Row(rowCheck.Index), rowCheck)
	}

	for _, columnCheck := range checks.ColumnChecks {
		if columnCheck.Name != "" {
			checkColumn(table.ColumnByName(columnCheck.Name), columnCheck)
		} else {
			checkColumn(table.Column(columnCheck.Index), columnCheck)
		}
	}
}

func checkRequest(request *assertdb.RequestAssert, checks Checks) {
	if checks.Description != "" {
		request.As(checks.Description)
	}

	if checks.NumberOfRows != nil {
		request.HasNumberOfRows(*checks.NumberOfRows)
	}

	if len(checks.ColumnNames) > 0 {
		request.HasColumns(checks.ColumnNames...)
	}

	for _, rowCheck := range checks.Rows {
		checkRow(request.Row(rowCheck.Index), rowCheck)
	}

	for _, columnCheck := range checks.ColumnChecks {
		if columnCheck.Name != "" {
			checkColumn(request.ColumnByName(columnCheck.Name), columnCheck)
		} else {
			checkColumn(request.Column(columnCheck.Index), columnCheck)
		}
	}
}

func checkRow[O assertdb.Origin](row *assertdb.RowAssert[O], check RowCheck) {
	if check.Values != nil {
		row.HasValues(check.Values...)
	}

	for _, name := range slices.Sorted(maps.Keys(check.Fields)) {
		row.ValueByName(name).IsEqualTo(check.Fields[name])
	}
}

func checkColumn[O assertdb.Origin](column *assertdb.ColumnAssert[O], check ColumnCheck) {
	if check.Values != nil {
		column.HasValues(check.Values...)
	}

	if len(check.Contains) > 0 {
		column.ContainsValues(check.Contains...)
	}

	if check.Type != "" {
		if valueType, err := data.ParseValueType(check.Type); err == nil {
			column.IsOfType(valueType)
		}
	}

	if check.NoNulls {
		column.ContainsNoNull()
	}
}
