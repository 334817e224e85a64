package dbsource_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb"
	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/dbsource"
	"github.com/AntonStoeckl/assertdb-go/testutil/fixtures"
	"github.com/AntonStoeckl/assertdb-go/testutil/observability"
)

var booksSpec = dbsource.TableSpec{Name: fixtures.BooksTableName, PrimaryKey: []string{"id"}}

func givenSQLiteSource(t *testing.T, db *sql.DB, options ...dbsource.Option) dbsource.Source {
	t.Helper()

	options = append([]dbsource.Option{dbsource.WithDialect(dbsource.DialectSQLite3)}, options...)

	source, err := dbsource.NewSourceFromSQLDB(db, options...)
	require.NoError(t, err, "error in arranging test data")

	return source
}

func Test_Table_LoadsASnapshotOrderedByPrimaryKey(t *testing.T) {
	// arrange
	db := fixtures.OpenSQLiteBooksDB(t)
	fixtures.InsertBook(t, db, []any{0, "Domain-Driven Design", "Eric Evans", 2003, false, fixtures.AddedAt})
	source := givenSQLiteSource(t, db)

	// act
	table, err := source.Table(context.Background(), booksSpec)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "books", table.Name())
	assert.Equal(t, fixtures.BooksColumns, table.ColumnNames())
	assert.Equal(t, fixtures.BooksPrimaryKey, table.PrimaryKeyNames())

	assert.NotPanics(t, func() {
		assertdb.AssertThatTable(table).
			HasNumberOfRows(3).
			Column(0).HasValues(0, 1, 2).
			ReturnToOrigin().
			Row(2).HasValues(2, "Domain-Driven Design Distilled", "Vaughn Vernon", 2016, 1, fixtures.AddedAt)
	})
}

func Test_Table_SelectsTheGivenColumns(t *testing.T) {
	source := givenSQLiteSource(t, fixtures.OpenSQLiteBooksDB(t))

	table, err := source.Table(context.Background(), dbsource.TableSpec{
		Name:       fixtures.BooksTableName,
		PrimaryKey: []string{"id"},
		Columns:    []string{"id", "authors"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "AUTHORS"}, table.ColumnNames())
	assert.NotPanics(t, func() {
		assertdb.AssertThatTable(table).Column(1).HasValues("Vlad Khononov", "Vaughn Vernon")
	})
}

func Test_Request_LoadsTheQueryResult(t *testing.T) {
	source := givenSQLiteSource(t, fixtures.OpenSQLiteBooksDB(t))

	request, err := source.Request(context.Background(), fixtures.LentBooksSQL)

	require.NoError(t, err)
	assert.Equal(t, fixtures.LentBooksSQL, request.SQL())
	assert.NotPanics(t, func() {
		assertdb.AssertThatRequest(request).
			HasColumns("ID", "TITLE").
			HasNumberOfRows(1).
			Row(0).HasValues(2, "Domain-Driven Design Distilled")
	})
}

func Test_Request_PassesBindValues(t *testing.T) {
	db := fixtures.OpenSQLiteBooksDB(t)
	source, err := dbsource.NewSourceFromSQLX(sqlx.NewDb(db, "sqlite"), dbsource.WithDialect(dbsource.DialectSQLite3))
	require.NoError(t, err, "error in arranging test data")

	request, err := source.Request(context.Background(), "SELECT title FROM books WHERE publication_year > ?", 2020)

	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assertdb.AssertThatRequest(request).HasNumberOfRows(1).Row(0).Value(0).IsEqualTo("Learning Domain-Driven Design")
	})
}

func Test_ChangeRecorder_RecordsChangesBetweenTwoPoints(t *testing.T) {
	// arrange
	ctx := context.Background()
	db := fixtures.OpenSQLiteBooksDB(t)
	source := givenSQLiteSource(t, db)

	recorder, err := source.StartChanges(ctx, booksSpec)
	require.NoError(t, err)

	fixtures.ApplyLending(t, db)

	// act
	changes, err := recorder.End(ctx)

	// assert
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assertdb.AssertThatChanges(changes).
			HasNumberOfChanges(3).
			Change(0).IsCreation().HasPrimaryKey(3).
			ReturnToOrigin().
			Change(1).IsModification().HasPrimaryKey(1).
			HasNumberOfModifiedColumns(1).
			ColumnByName("lent").HasValues(0, 1).
			ReturnToOrigin().
			ReturnToOrigin().
			Change(2).IsDeletion().HasPrimaryKey(2)
	})

	_, err = recorder.End(ctx)
	assert.ErrorIs(t, err, dbsource.ErrRecorderAlreadyEnded)
}

func Test_ChangeRecorder_WithoutChanges(t *testing.T) {
	ctx := context.Background()
	source := givenSQLiteSource(t, fixtures.OpenSQLiteBooksDB(t))

	recorder, err := source.StartChanges(ctx, booksSpec)
	require.NoError(t, err)

	changes, err := recorder.End(ctx)

	require.NoError(t, err)
	assert.Zero(t, changes.NumberOfChanges())
}

func Test_Source_ShouldFail(t *testing.T) {
	ctx := context.Background()
	source := givenSQLiteSource(t, fixtures.OpenSQLiteBooksDB(t))

	tests := []struct {
		name        string
		act         func() error
		expectedErr error
	}{
		{
			name: "with empty table name",
			act: func() error {
				_, err := source.Table(ctx, dbsource.TableSpec{})
				return err
			},
			expectedErr: dbsource.ErrEmptyTableNameSupplied,
		},
		{
			name: "with unknown table",
			act: func() error {
				_, err := source.Table(ctx, dbsource.TableSpec{Name: "members"})
				return err
			},
			expectedErr: dbsource.ErrQueryingFailed,
		},
		{
			name: "with unknown primary key column",
			act: func() error {
				_, err := source.Table(ctx, dbsource.TableSpec{Name: fixtures.BooksTableName, PrimaryKey: []string{"isbn"}})
				return err
			},
			expectedErr: dbsource.ErrQueryingFailed,
		},
		{
			name: "with invalid sql",
			act: func() error {
				_, err := source.Request(ctx, "SELEC id FROM books")
				return err
			},
			expectedErr: dbsource.ErrQueryingFailed,
		},
		{
			name: "with duplicate result columns",
			act: func() error {
				_, err := source.Request(ctx, "SELECT id, id FROM books")
				return err
			},
			expectedErr: data.ErrDuplicateColumn,
		},
		{
			name: "to record changes without tables",
			act: func() error {
				_, err := source.StartChanges(ctx)
				return err
			},
			expectedErr: dbsource.ErrNoTablesToRecord,
		},
		{
			name: "to record changes without primary key",
			act: func() error {
				_, err := source.StartChanges(ctx, dbsource.TableSpec{Name: fixtures.BooksTableName})
				return err
			},
			expectedErr: data.ErrMissingPrimaryKey,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.act(), tc.expectedErr)
		})
	}
}

func Test_NewSource_ShouldFail(t *testing.T) {
	_, err := dbsource.NewSourceFromSQLDB(nil)
	assert.ErrorIs(t, err, dbsource.ErrNilDatabaseConnection)

	_, err = dbsource.NewSourceFromSQLX(nil)
	assert.ErrorIs(t, err, dbsource.ErrNilDatabaseConnection)

	_, err = dbsource.NewSourceFromPGXPool(nil)
	assert.ErrorIs(t, err, dbsource.ErrNilDatabaseConnection)

	_, err = dbsource.NewSourceFromSQLDB(fixtures.OpenSQLiteBooksDB(t), dbsource.WithDialect("oracle"))
	assert.ErrorIs(t, err, dbsource.ErrUnsupportedDialect)
}

func Test_Source_LogsAndMeasuresQueries(t *testing.T) {
	// arrange
	logger, logSpy := observability.NewSpyLogger()
	metricsSpy := observability.NewMetricsCollectorSpy()
	source := givenSQLiteSource(t, fixtures.OpenSQLiteBooksDB(t), dbsource.WithLogger(logger), dbsource.WithMetrics(metricsSpy))

	// act
	_, err := source.Table(context.Background(), booksSpec)
	require.NoError(t, err)

	_, err = source.Request(context.Background(), "SELECT nothing FROM nowhere")
	require.Error(t, err)

	// assert
	assert.True(t, logSpy.HasLog(slog.LevelDebug, "executed sql for: table"))
	assert.True(t, logSpy.HasLog(slog.LevelDebug, "executed sql for: request"))
	assert.True(t, logSpy.HasLogWithAttr(slog.LevelInfo, "dbsource operation: snapshot loaded", "row_count", "2"))
	assert.True(t, logSpy.HasLog(slog.LevelError, "database query execution failed"))
	assert.True(t, metricsSpy.HasDurationRecord(dbsource.MetricQueryDuration))
	assert.Equal(t, 1, metricsSpy.CountCounterRecords(dbsource.MetricDatabaseErrors))
}

func Test_Table_FromPostgres_WithEveryAdapter(t *testing.T) {
	pool, tableName := fixtures.OpenPostgresBooksPool(t)
	dsn := os.Getenv(fixtures.PostgresDSNEnv)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "error in arranging test data")
	t.Cleanup(func() { _ = sqlDB.Close() })

	sqlxDB, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err, "error in arranging test data")
	t.Cleanup(func() { _ = sqlxDB.Close() })

	sources := map[string]func() (dbsource.Source, error){
		"pgx pool": func() (dbsource.Source, error) { return dbsource.NewSourceFromPGXPool(pool) },
		"sql db":   func() (dbsource.Source, error) { return dbsource.NewSourceFromSQLDB(sqlDB) },
		"sqlx db":  func() (dbsource.Source, error) { return dbsource.NewSourceFromSQLX(sqlxDB) },
	}

	for name, newSource := range sources {
		t.Run(name, func(t *testing.T) {
			source, err := newSource()
			require.NoError(t, err, "error in arranging test data")

			table, err := source.Table(context.Background(), dbsource.TableSpec{Name: tableName, PrimaryKey: []string{"id"}})
			require.NoError(t, err)

			request, err := source.Request(context.Background(), "SELECT title FROM "+tableName+" WHERE lent = $1", true)
			require.NoError(t, err)

			assert.NotPanics(t, func() {
				assertdb.AssertThatTable(table).
					HasColumns(fixtures.BooksColumns...).
					Row(1).HasValues(2, "Domain-Driven Design Distilled", "Vaughn Vernon", 2016, true, fixtures.AddedAt).
					ValueByName("added_at").IsDateTime()

				assertdb.AssertThatRequest(request).HasNumberOfRows(1).Row(0).Value(0).IsText()
			})
		})
	}
}
