package data

import (
	"fmt"
	"slices"
	"strings"
)

// Row is one row of a table, a request, or one side of a change.
// A row of a change side where the row is absent (start point of a creation, end point
// of a deletion) does not exist and has no values.
type Row struct {
	index       int
	point       Point
	exists      bool
	columnNames []string
	pkNames     []string
	values      []Value
}

func newRow(index int, point Point, columnNames, pkNames []string, objects []any) Row {
	values := make([]Value, len(objects))
	for i, object := range objects {
		values[i] = NewValue(columnNames[i], object).positioned(index, i, point)
	}

	return Row{
		index:       index,
		point:       point,
		exists:      true,
		columnNames: columnNames,
		pkNames:     pkNames,
		values:      values,
	}
}

func absentRow(point Point, columnNames, pkNames []string) Row {
	return Row{
		index:       -1,
		point:       point,
		columnNames: columnNames,
		pkNames:     pkNames,
	}
}

// Index returns the position of the row, -1 for a row that does not exist.
func (r Row) Index() int {
	return r.index
}

func (r Row) Point() Point {
	return r.point
}

func (r Row) Exists() bool {
	return r.exists
}

func (r Row) ColumnNames() []string {
	return slices.Clone(r.columnNames)
}

func (r Row) PrimaryKeyNames() []string {
	return slices.Clone(r.pkNames)
}

func (r Row) NumberOfColumns() int {
	return len(r.columnNames)
}

// Values returns the values of the row, empty for a row that does not exist.
func (r Row) Values() []Value {
	return slices.Clone(r.values)
}

// ValueAt returns the value in the column at index. A row that does not exist yields NULL values.
func (r Row) ValueAt(index int) (Value, error) {
	if index < 0 || index >= len(r.columnNames) {
		return Value{}, fmt.Errorf("%w: column index %d, row has %d columns", ErrIndexOutOfBounds, index, len(r.columnNames))
	}

	if !r.exists {
		return NewValue(r.columnNames[index], nil).positioned(r.index, index, r.point), nil
	}

	return r.values[index], nil
}

// ValueByName returns the value in the named column, matching the name case-insensitively.
func (r Row) ValueByName(name string) (Value, error) {
	index := indexOfColumn(r.columnNames, name)
	if index < 0 {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	return r.ValueAt(index)
}

// PrimaryKey returns the values of the primary key columns in primary key order.
func (r Row) PrimaryKey() []Value {
	pk := make([]Value, 0, len(r.pkNames))

	for _, name := range r.pkNames {
		value, err := r.ValueByName(name)
		if err == nil {
			pk = append(pk, value)
		}
	}

	return pk
}

func (r Row) primaryKeyKey() string {
	keys := make([]string, 0, len(r.pkNames))
	for _, value := range r.PrimaryKey() {
		keys = append(keys, value.key())
	}

	return strings.Join(keys, "|")
}

func indexOfColumn(columnNames []string, name string) int {
	return slices.IndexFunc(columnNames, func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}
