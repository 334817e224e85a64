package assertdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb"
	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
	"github.com/AntonStoeckl/assertdb-go/testutil/fixtures"
)

func givenSoftAssertions(t *testing.T, options ...soft.Option) *assertdb.SoftAssertions {
	t.Helper()

	softly, err := assertdb.NewSoftAssertions(options...)
	require.NoError(t, err)

	return softly
}

func givenSingleValueRequest(t *testing.T, value any) data.Request {
	t.Helper()

	request, err := data.NewRequest("select value from answers", []string{"VALUE"}, [][]any{{value}})
	require.NoError(t, err)

	return request
}

func Test_Registry_HoldsEveryNodeType(t *testing.T) {
	registry, err := assertdb.Registry()
	require.NoError(t, err)

	assert.Equal(t, 16, registry.Len())

	again, err := assertdb.Registry()
	require.NoError(t, err)
	assert.Same(t, registry, again)
}

func Test_SoftAssertions_FailureThenSuccess(t *testing.T) {
	softly := givenSoftAssertions(t)
	value := softly.AssertThatRequest(givenSingleValueRequest(t, 2)).Row(0).Value(0)

	value.IsEqualTo(1)
	value.IsEqualTo(2)

	require.Len(t, softly.Errors(), 1)
	assert.Contains(t, softly.Errors()[0].Error(), "expected 1 but was 2")
	assert.True(t, softly.WasSuccess(), "the last chain succeeded")
}

func Test_SoftAssertions_SelfDelegatingFailure_IsReportedOnce(t *testing.T) {
	softly := givenSoftAssertions(t)

	softly.AssertThatRequest(givenSingleValueRequest(t, true)).Row(0).Value(0).IsFalse()

	err := softly.AssertAll()
	require.Error(t, err)

	var multiple *soft.MultipleFailuresError
	require.ErrorAs(t, err, &multiple)
	require.Len(t, multiple.Failures, 1)
	assert.Equal(t, "expected false but was true", multiple.Failures[0].Message)
	assert.Equal(t, "IsEqualTo", multiple.Failures[0].Method)
	assert.Equal(t,
		"value at index 0 (column name : VALUE) of row at index 0 of 'select value from answers' request",
		multiple.Failures[0].Description,
	)
}

func Test_SoftAssertions_AllSucceed(t *testing.T) {
	softly := givenSoftAssertions(t)

	softly.AssertThatTable(fixtures.BooksTable(t)).
		HasNumberOfRows(2).
		Row(1).HasValues(2, "Domain-Driven Design Distilled", "Vaughn Vernon", 2016, true, fixtures.AddedAt).
		ValueByName("LENT").IsTrue()

	softly.AssertThatChanges(fixtures.BooksChanges(t)).HasNumberOfChanges(3)

	assert.Empty(t, softly.Errors())
	assert.True(t, softly.WasSuccess())
	assert.NoError(t, softly.AssertAll())
}

func Test_SoftAssertions_CollectsAcrossTheGraph(t *testing.T) {
	softly := givenSoftAssertions(t)
	books := softly.AssertThatTable(fixtures.BooksTable(t))

	books.HasNumberOfRows(5).
		Row(0).HasNumberOfColumns(2).
		Value(1).IsEqualTo("Patterns of Enterprise Application Architecture").
		ReturnToOrigin().
		ReturnToOrigin().
		Column(3).IsText()

	failures := softly.Errors()
	require.Len(t, failures, 4)
	assert.Equal(t, "[BOOKS table] expected number of rows to be 5 but was 2", failures[0].Error())
	assert.Equal(t, "[row at index 0 of BOOKS table] expected number of columns to be 2 but was 6", failures[1].Error())
	assert.Equal(t,
		`[value at index 1 (column name : TITLE) of row at index 0 of BOOKS table] `+
			`expected "Patterns of Enterprise Application Architecture" but was "Learning Domain-Driven Design"`,
		failures[2].Error(),
	)
	assert.Equal(t, "IsOfType", failures[3].Method)

	err := softly.AssertAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, soft.ErrAssertionFailed)
}

func Test_SoftAssertions_NavigationStaysBoundAndStable(t *testing.T) {
	softly := givenSoftAssertions(t)
	books := softly.AssertThatTable(fixtures.BooksTable(t))

	row := books.Row(0)
	value := row.Value(2)

	assert.True(t, soft.IsBound(row))
	assert.True(t, soft.IsBound(value))
	assert.Same(t, row, books.Row(0))
	assert.Same(t, value, row.ValueByName("authors"))
	assert.Same(t, books, row.ReturnToOrigin())
	assert.Same(t, row, value.ReturnToOrigin())
	assert.Same(t, books.Column(1), books.ColumnByName("title"))
}

func Test_SoftAssertions_Passthrough_IsApplied(t *testing.T) {
	softly := givenSoftAssertions(t)
	title := softly.AssertThatTable(fixtures.BooksTable(t)).Row(0).Value(1)

	title.As("first title").
		UsingComparator(func(actual, expected data.Value) bool { return true }).
		IsEqualTo("anything")

	assert.Empty(t, softly.Errors())

	title.UsingDefaultComparator().IsEqualTo("anything")

	require.Len(t, softly.Errors(), 1)
	assert.Equal(t, "first title", softly.Errors()[0].Description)
}

func Test_SoftAssertions_NavigationMisuse_IsFatalButKeepsTheSession(t *testing.T) {
	softly := givenSoftAssertions(t)
	books := softly.AssertThatTable(fixtures.BooksTable(t))

	assertPanicsWithErrorIs(t, data.ErrIndexOutOfBounds, func() {
		books.Row(7)
	})

	assert.Empty(t, softly.Errors(), "fatal errors are not recorded")
	assert.NoError(t, softly.Session().Err())

	books.HasNumberOfRows(1)

	require.Len(t, softly.Errors(), 1)
	assert.False(t, softly.WasSuccess())
}

func Test_SoftAssertions_End(t *testing.T) {
	softly := givenSoftAssertions(t)
	books := softly.AssertThatTable(fixtures.BooksTable(t))
	books.HasNumberOfRows(1)

	softly.End()

	assertPanicsWithErrorIs(t, soft.ErrSessionEnded, func() {
		books.HasNumberOfRows(2)
	})

	assertPanicsWithErrorIs(t, soft.ErrSessionEnded, func() {
		softly.AssertThatTable(fixtures.BooksTable(t))
	})

	assert.Len(t, softly.Errors(), 1)
	assert.Error(t, softly.AssertAll())
}

func Test_SoftAssertions_WrapsARootWithItsDescription(t *testing.T) {
	session, err := soft.NewSession(mustRegistry(t))
	require.NoError(t, err)

	root := assertdb.AssertThatTable(fixtures.BooksTable(t)).As("library")

	wrapped, err := soft.Wrap(session, root)
	require.NoError(t, err)

	assert.NotSame(t, root, wrapped)
	assert.Equal(t, "library", wrapped.Description())

	wrapped.HasNumberOfRows(9)
	require.Len(t, session.Failures(), 1)
	assert.Equal(t, "library", session.Failures()[0].Description)
}

func mustRegistry(t *testing.T) *soft.Registry {
	t.Helper()

	registry, err := assertdb.Registry()
	require.NoError(t, err)

	return registry
}
