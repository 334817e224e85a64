package fixtures

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// BooksSchemaSQL creates the books table. SQLite has no boolean or timestamp storage class,
// so LENT is stored as 0/1 and ADDED_AT as RFC 3339 text.
const BooksSchemaSQL = `CREATE TABLE books (
	id               INTEGER PRIMARY KEY,
	title            TEXT    NOT NULL,
	authors          TEXT    NOT NULL,
	publication_year INTEGER NOT NULL,
	lent             INTEGER NOT NULL,
	added_at         TEXT    NOT NULL
)`

const LentBooksSQL = "SELECT id, title FROM books WHERE lent = 1 ORDER BY id"

const insertBookSQL = `INSERT INTO books (id, title, authors, publication_year, lent, added_at) VALUES (?, ?, ?, ?, ?, ?)`

// OpenSQLiteBooksDB opens an in-memory SQLite database holding the books table with BookRows.
// The database is closed when the test ends.
func OpenSQLiteBooksDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "error in arranging test data")

	// every connection to :memory: opens its own database
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close() // ignore error
	})

	seedBooks(t, db)

	return db
}

// CreateSQLiteBooksFile creates a SQLite database file holding the books table with BookRows
// in a temporary directory and returns its path.
func CreateSQLiteBooksFile(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "books.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err, "error in arranging test data")

	defer func() {
		_ = db.Close() // ignore error
	}()

	seedBooks(t, db)

	return path
}

func seedBooks(t testing.TB, db *sql.DB) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), BooksSchemaSQL)
	require.NoError(t, err, "error in arranging test data")

	for _, row := range BookRows() {
		InsertBook(t, db, row)
	}
}

// InsertBook inserts one row in BooksColumns order.
func InsertBook(t testing.TB, db *sql.DB, row []any) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), insertBookSQL, toSQLite(row)...)
	require.NoError(t, err, "error in arranging test data")
}

// ApplyLending turns the database content from BookRows into BookRowsAfterLending.
func ApplyLending(t testing.TB, db *sql.DB) {
	t.Helper()

	ctx := context.Background()

	_, err := db.ExecContext(ctx, "UPDATE books SET lent = 1 WHERE id = 1")
	require.NoError(t, err, "error in arranging test data")

	_, err = db.ExecContext(ctx, "DELETE FROM books WHERE id = 2")
	require.NoError(t, err, "error in arranging test data")

	InsertBook(t, db, BookRowsAfterLending()[1])
}

func toSQLite(row []any) []any {
	converted := make([]any, len(row))

	for i, value := range row {
		switch v := value.(type) {
		case bool:
			if v {
				converted[i] = 1
			} else {
				converted[i] = 0
			}
		case time.Time:
			converted[i] = v.Format(time.RFC3339)
		default:
			converted[i] = v
		}
	}

	return converted
}
