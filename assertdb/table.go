package assertdb

import (
	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// TableAssert is the root node asserting on a table snapshot.
type TableAssert struct {
	soft.Base
	table       data.Table
	description string
	navigator   gridNavigator[*TableAssert]
}

// AssertThatTable starts a strict assertion chain on table: the first failure panics.
func AssertThatTable(table data.Table) *TableAssert {
	return newTableAssert(rootState[data.Table]{value: table})
}

func newTableAssert(state rootState[data.Table]) *TableAssert {
	return &TableAssert{
		table:       state.value,
		description: state.description,
		navigator:   newGridNavigator[*TableAssert](),
	}
}

func (t *TableAssert) Identity() (soft.Node, any) {
	return nil, rootState[data.Table]{value: t.table, description: t.description}
}

func (t *TableAssert) Description() string {
	return describe(t.description, func() string { return tableLabel(t.table.Name()) })
}

func (t *TableAssert) String() string {
	return t.Description()
}

func (t *TableAssert) As(description string) *TableAssert {
	return soft.Call(t, "As", func() *TableAssert {
		t.description = description
		return t
	})
}

func (t *TableAssert) HasNumberOfRows(expected int) *TableAssert {
	return soft.Call(t, "HasNumberOfRows", func() *TableAssert {
		checkNumberOfRows(t.Description(), t.table, expected)
		return t
	})
}

func (t *TableAssert) HasNumberOfColumns(expected int) *TableAssert {
	return soft.Call(t, "HasNumberOfColumns", func() *TableAssert {
		checkNumberOfColumns(t.Description(), t.table.NumberOfColumns(), expected)
		return t
	})
}

func (t *TableAssert) HasColumns(names ...string) *TableAssert {
	return soft.Call(t, "HasColumns", func() *TableAssert {
		checkColumns(t.Description(), t.table, names)
		return t
	})
}

func (t *TableAssert) IsEmpty() *TableAssert {
	return soft.Call(t, "IsEmpty", func() *TableAssert {
		return t.HasNumberOfRows(0)
	})
}

func (t *TableAssert) Row(index int) *RowAssert[*TableAssert] {
	return soft.Call(t, "Row", func() *RowAssert[*TableAssert] {
		return t.navigator.row(t, t.table, index)
	})
}

func (t *TableAssert) Column(index int) *ColumnAssert[*TableAssert] {
	return soft.Call(t, "Column", func() *ColumnAssert[*TableAssert] {
		return t.navigator.column(t, t.table, index)
	})
}

func (t *TableAssert) ColumnByName(name string) *ColumnAssert[*TableAssert] {
	return soft.Call(t, "ColumnByName", func() *ColumnAssert[*TableAssert] {
		return t.navigator.columnByName(t, t.table, name)
	})
}
