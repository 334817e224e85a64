package data_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

func givenItemsTable(t *testing.T) data.Table {
	t.Helper()

	table, err := data.NewTable("items", []string{"ID", "NAME", "PRICE"}, []string{"id"}, [][]any{
		{1, "apple", 1.5},
		{2, "pear", nil},
	})
	require.NoError(t, err)

	return table
}

func Test_NewTable(t *testing.T) {
	table := givenItemsTable(t)

	assert.Equal(t, "items", table.Name())
	assert.Equal(t, 2, table.NumberOfRows())
	assert.Equal(t, 3, table.NumberOfColumns())

	if diff := cmp.Diff([]string{"ID", "NAME", "PRICE"}, table.ColumnNames()); diff != "" {
		t.Errorf("column names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"ID"}, table.PrimaryKeyNames()); diff != "" {
		t.Errorf("primary key mismatch (-want +got):\n%s", diff)
	}
}

func Test_NewTable_ShouldFail(t *testing.T) {
	tests := []struct {
		name        string
		tableName   string
		columns     []string
		primaryKey  []string
		rows        [][]any
		expectedErr error
	}{
		{
			name:        "empty name",
			tableName:   " ",
			columns:     []string{"ID"},
			expectedErr: data.ErrEmptyTableName,
		},
		{
			name:        "duplicate column",
			tableName:   "items",
			columns:     []string{"ID", "id"},
			expectedErr: data.ErrDuplicateColumn,
		},
		{
			name:        "unknown primary key column",
			tableName:   "items",
			columns:     []string{"ID"},
			primaryKey:  []string{"KEY"},
			expectedErr: data.ErrPrimaryKeyColumnNotFound,
		},
		{
			name:        "row too short",
			tableName:   "items",
			columns:     []string{"ID", "NAME"},
			rows:        [][]any{{1}},
			expectedErr: data.ErrRowWidthMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := data.NewTable(tc.tableName, tc.columns, tc.primaryKey, tc.rows)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Table_RowAndColumnNavigation(t *testing.T) {
	table := givenItemsTable(t)

	row, err := table.RowAt(1)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Index())
	assert.True(t, row.Exists())

	name, err := row.ValueByName("name")
	require.NoError(t, err)
	assert.Equal(t, "pear", name.Object())
	assert.Equal(t, 1, name.RowIndex())
	assert.Equal(t, 1, name.ColumnIndex())

	price, err := row.ValueAt(2)
	require.NoError(t, err)
	assert.True(t, price.IsNull())

	require.Len(t, row.PrimaryKey(), 1)
	assert.Equal(t, int64(2), row.PrimaryKey()[0].Object())

	column, err := table.ColumnByName("Price")
	require.NoError(t, err)
	assert.Equal(t, "PRICE", column.Name())
	assert.Equal(t, 2, column.Index())
	assert.Equal(t, 2, column.NumberOfRows())

	first, err := column.ValueAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, first.Object())
}

func Test_Table_Navigation_ShouldFail(t *testing.T) {
	table := givenItemsTable(t)

	_, err := table.RowAt(2)
	assert.ErrorIs(t, err, data.ErrIndexOutOfBounds)

	_, err = table.RowAt(-1)
	assert.ErrorIs(t, err, data.ErrIndexOutOfBounds)

	_, err = table.ColumnAt(3)
	assert.ErrorIs(t, err, data.ErrIndexOutOfBounds)

	_, err = table.ColumnByName("WEIGHT")
	assert.ErrorIs(t, err, data.ErrColumnNotFound)

	row, err := table.RowAt(0)
	require.NoError(t, err)

	_, err = row.ValueByName("WEIGHT")
	assert.ErrorIs(t, err, data.ErrColumnNotFound)

	column, err := table.ColumnAt(0)
	require.NoError(t, err)

	_, err = column.ValueAt(5)
	assert.ErrorIs(t, err, data.ErrIndexOutOfBounds)
}

func Test_NewRequest(t *testing.T) {
	request, err := data.NewRequest("select count(*) as total from items", []string{"TOTAL"}, [][]any{{int64(2)}})
	require.NoError(t, err)

	assert.Equal(t, "select count(*) as total from items", request.SQL())
	assert.Empty(t, request.PrimaryKeyNames())
	assert.Equal(t, 1, request.NumberOfRows())

	_, err = data.NewRequest("", nil, nil)
	assert.ErrorIs(t, err, data.ErrEmptyRequest)
}
