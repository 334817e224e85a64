package data

import (
	"fmt"
	"slices"
)

// Column is one column of a table or a request, with the values of every row.
type Column struct {
	index  int
	name   string
	values []Value
}

func (c Column) Index() int {
	return c.index
}

func (c Column) Name() string {
	return c.name
}

func (c Column) Values() []Value {
	return slices.Clone(c.values)
}

func (c Column) NumberOfRows() int {
	return len(c.values)
}

func (c Column) ValueAt(rowIndex int) (Value, error) {
	if rowIndex < 0 || rowIndex >= len(c.values) {
		return Value{}, fmt.Errorf("%w: row index %d, column has %d rows", ErrIndexOutOfBounds, rowIndex, len(c.values))
	}

	return c.values[rowIndex], nil
}
