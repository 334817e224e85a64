package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

const BooksTableName = "books"

// BooksColumns are the columns of the books table, in table order.
var BooksColumns = []string{"ID", "TITLE", "AUTHORS", "PUBLICATION_YEAR", "LENT", "ADDED_AT"}

var BooksPrimaryKey = []string{"ID"}

// AddedAt is the fixed time the fixture books were added to circulation.
var AddedAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// BookRows are the rows of the books table at the start point.
func BookRows() [][]any {
	return [][]any{
		{int64(1), "Learning Domain-Driven Design", "Vlad Khononov", int64(2021), false, AddedAt},
		{int64(2), "Domain-Driven Design Distilled", "Vaughn Vernon", int64(2016), true, AddedAt},
	}
}

// BookRowsAfterLending are the rows after book 1 was lent, book 2 was removed and book 3 was added.
func BookRowsAfterLending() [][]any {
	return [][]any{
		{int64(1), "Learning Domain-Driven Design", "Vlad Khononov", int64(2021), true, AddedAt},
		{int64(3), "Implementing Domain-Driven Design", "Vaughn Vernon", int64(2013), false, AddedAt.Add(time.Hour)},
	}
}

func BooksTable(t testing.TB) data.Table {
	t.Helper()

	return GivenBooksTable(t, BookRows())
}

func BooksTableAfterLending(t testing.TB) data.Table {
	t.Helper()

	return GivenBooksTable(t, BookRowsAfterLending())
}

func GivenBooksTable(t testing.TB, rows [][]any) data.Table {
	t.Helper()

	table, err := data.NewTable(BooksTableName, BooksColumns, BooksPrimaryKey, rows)
	require.NoError(t, err, "error in arranging test data")

	return table
}

// BooksChanges holds one creation (book 3), one modification (book 1) and one deletion (book 2).
func BooksChanges(t testing.TB) data.Changes {
	t.Helper()

	changes, err := data.NewChanges(
		[]data.Table{BooksTable(t)},
		[]data.Table{BooksTableAfterLending(t)},
	)
	require.NoError(t, err, "error in arranging test data")

	return changes
}

// LentBooksRequest is the result of LentBooksSQL at the start point.
func LentBooksRequest(t testing.TB) data.Request {
	t.Helper()

	request, err := data.NewRequest(LentBooksSQL, []string{"ID", "TITLE"}, [][]any{
		{int64(2), "Domain-Driven Design Distilled"},
	})
	require.NoError(t, err, "error in arranging test data")

	return request
}
