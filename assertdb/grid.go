package assertdb

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// gridData is the part of data.Table and data.Request the grid roots navigate.
type gridData interface {
	NumberOfRows() int
	NumberOfColumns() int
	ColumnNames() []string
	RowAt(index int) (data.Row, error)
	ColumnAt(index int) (data.Column, error)
	ColumnByName(name string) (data.Column, error)
}

// gridNavigator memoizes the row and column nodes of one grid root,
// so navigating twice to the same index yields the same node.
type gridNavigator[O Origin] struct {
	rows    map[int]*RowAssert[O]
	columns map[int]*ColumnAssert[O]
}

func newGridNavigator[O Origin]() gridNavigator[O] {
	return gridNavigator[O]{
		rows:    make(map[int]*RowAssert[O]),
		columns: make(map[int]*ColumnAssert[O]),
	}
}

func (g *gridNavigator[O]) row(origin O, grid gridData, index int) *RowAssert[O] {
	if row, ok := g.rows[index]; ok {
		return row
	}

	row, err := grid.RowAt(index)
	if err != nil {
		navigationError(origin.Description(), err)
	}

	node := newRowAssert(origin, row)
	g.rows[index] = node

	return node
}

func (g *gridNavigator[O]) column(origin O, grid gridData, index int) *ColumnAssert[O] {
	if column, ok := g.columns[index]; ok {
		return column
	}

	column, err := grid.ColumnAt(index)
	if err != nil {
		navigationError(origin.Description(), err)
	}

	node := newColumnAssert(origin, column)
	g.columns[index] = node

	return node
}

func (g *gridNavigator[O]) columnByName(origin O, grid gridData, name string) *ColumnAssert[O] {
	column, err := grid.ColumnByName(name)
	if err != nil {
		navigationError(origin.Description(), err)
	}

	return g.column(origin, grid, column.Index())
}

func checkNumberOfRows(description string, grid gridData, expected int) {
	if actual := grid.NumberOfRows(); actual != expected {
		soft.Fail(description, "expected number of rows to be %d but was %d", expected, actual)
	}
}

func checkNumberOfColumns(description string, actual, expected int) {
	if actual != expected {
		soft.Fail(description, "expected number of columns to be %d but was %d", expected, actual)
	}
}

func checkColumns(description string, grid gridData, expected []string) {
	actual := grid.ColumnNames()

	if !slices.EqualFunc(actual, expected, strings.EqualFold) {
		soft.Fail(description, "expected columns to be %v but were %v", expected, actual)
	}
}
