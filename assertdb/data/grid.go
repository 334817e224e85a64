package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// grid is the shared row/column structure of Table and Request.
type grid struct {
	columnNames []string
	pkNames     []string
	rows        []Row
}

func newGrid(columnNames, pkNames []string, rows [][]any) (grid, error) {
	columnNames = slices.Clone(columnNames)

	for i, name := range columnNames {
		if indexOfColumn(columnNames[:i], name) >= 0 {
			return grid{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
	}

	resolvedPK := make([]string, 0, len(pkNames))

	for _, name := range pkNames {
		index := indexOfColumn(columnNames, name)
		if index < 0 {
			return grid{}, fmt.Errorf("%w: %q", ErrPrimaryKeyColumnNotFound, name)
		}

		resolvedPK = append(resolvedPK, columnNames[index])
	}

	g := grid{
		columnNames: columnNames,
		pkNames:     resolvedPK,
		rows:        make([]Row, 0, len(rows)),
	}

	for i, objects := range rows {
		if len(objects) != len(columnNames) {
			return grid{}, fmt.Errorf("%w: row %d has %d values, expected %d",
				ErrRowWidthMismatch, i, len(objects), len(columnNames))
		}

		g.rows = append(g.rows, newRow(i, NoPoint, g.columnNames, g.pkNames, objects))
	}

	return g, nil
}

func (g grid) ColumnNames() []string {
	return slices.Clone(g.columnNames)
}

func (g grid) PrimaryKeyNames() []string {
	return slices.Clone(g.pkNames)
}

func (g grid) Rows() []Row {
	return slices.Clone(g.rows)
}

func (g grid) NumberOfRows() int {
	return len(g.rows)
}

func (g grid) NumberOfColumns() int {
	return len(g.columnNames)
}

func (g grid) RowAt(index int) (Row, error) {
	if index < 0 || index >= len(g.rows) {
		return Row{}, fmt.Errorf("%w: row index %d, %d rows", ErrIndexOutOfBounds, index, len(g.rows))
	}

	return g.rows[index], nil
}

func (g grid) ColumnAt(index int) (Column, error) {
	if index < 0 || index >= len(g.columnNames) {
		return Column{}, fmt.Errorf("%w: column index %d, %d columns", ErrIndexOutOfBounds, index, len(g.columnNames))
	}

	values := make([]Value, len(g.rows))
	for i, row := range g.rows {
		values[i] = row.values[index]
	}

	return Column{index: index, name: g.columnNames[index], values: values}, nil
}

// ColumnByName returns the named column, matching the name case-insensitively.
func (g grid) ColumnByName(name string) (Column, error) {
	index := indexOfColumn(g.columnNames, name)
	if index < 0 {
		return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	return g.ColumnAt(index)
}

// Table is a snapshot of the content of a database table.
type Table struct {
	grid
	name string
}

// NewTable is a factory method for a Table snapshot.
//
// Returns an error if the name is empty, column names repeat, a primary key column is unknown,
// or a row does not have exactly one value per column.
func NewTable(name string, columnNames, primaryKey []string, rows [][]any) (Table, error) {
	if strings.TrimSpace(name) == "" {
		return Table{}, ErrEmptyTableName
	}

	g, err := newGrid(columnNames, primaryKey, rows)
	if err != nil {
		return Table{}, errors.Join(fmt.Errorf("table %s", name), err)
	}

	return Table{grid: g, name: name}, nil
}

func (t Table) Name() string {
	return t.name
}

// Request is a snapshot of the result of an SQL query.
type Request struct {
	grid
	sql string
}

// NewRequest is a factory method for a Request snapshot.
func NewRequest(sql string, columnNames []string, rows [][]any) (Request, error) {
	if strings.TrimSpace(sql) == "" {
		return Request{}, ErrEmptyRequest
	}

	g, err := newGrid(columnNames, nil, rows)
	if err != nil {
		return Request{}, errors.Join(fmt.Errorf("request %q", sql), err)
	}

	return Request{grid: g, sql: sql}, nil
}

func (r Request) SQL() string {
	return r.sql
}
