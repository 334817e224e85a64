package assertdb

import (
	"fmt"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// RowAssert asserts on one row of its origin: a table, a request, or one side of a change.
type RowAssert[O Origin] struct {
	soft.Base
	origin      O
	row         data.Row
	description string
	values      map[int]*ValueAssert[*RowAssert[O]]
}

func newRowAssert[O Origin](origin O, row data.Row) *RowAssert[O] {
	return &RowAssert[O]{
		origin: origin,
		row:    row,
		values: make(map[int]*ValueAssert[*RowAssert[O]]),
	}
}

func (r *RowAssert[O]) Identity() (soft.Node, any) {
	return r.origin, r.row
}

func (r *RowAssert[O]) Description() string {
	return describe(r.description, func() string { return rowLabel(r.row, r.origin.Description()) })
}

func (r *RowAssert[O]) String() string {
	return r.Description()
}

func (r *RowAssert[O]) valueLabel(value data.Value) string {
	return fmt.Sprintf("value at index %d (column name : %s) of %s", value.ColumnIndex(), value.ColumnName(), r.Description())
}

func (r *RowAssert[O]) As(description string) *RowAssert[O] {
	return soft.Call(r, "As", func() *RowAssert[O] {
		r.description = description
		return r
	})
}

func (r *RowAssert[O]) HasNumberOfColumns(expected int) *RowAssert[O] {
	return soft.Call(r, "HasNumberOfColumns", func() *RowAssert[O] {
		checkNumberOfColumns(r.Description(), r.row.NumberOfColumns(), expected)
		return r
	})
}

// HasValues verifies the values of the row in column order.
func (r *RowAssert[O]) HasValues(expected ...any) *RowAssert[O] {
	return soft.Call(r, "HasValues", func() *RowAssert[O] {
		r.Exists()

		if len(expected) != r.row.NumberOfColumns() {
			soft.Fail(r.Description(), "expected %d values but the row has %d columns", len(expected), r.row.NumberOfColumns())
		}

		for i, object := range expected {
			actual, _ := r.row.ValueAt(i)
			want := expectedValue(actual.ColumnName(), object)

			if !actual.Equal(want) {
				soft.Fail(r.Description(), "expected value at index %d (column name : %s) to be %s but was %s",
					i, actual.ColumnName(), want, actual)
			}
		}

		return r
	})
}

func (r *RowAssert[O]) Exists() *RowAssert[O] {
	return soft.Call(r, "Exists", func() *RowAssert[O] {
		if !r.row.Exists() {
			soft.Fail(r.Description(), "expected row to exist but it does not")
		}

		return r
	})
}

func (r *RowAssert[O]) DoesNotExist() *RowAssert[O] {
	return soft.Call(r, "DoesNotExist", func() *RowAssert[O] {
		if r.row.Exists() {
			soft.Fail(r.Description(), "expected row not to exist but it does")
		}

		return r
	})
}

func (r *RowAssert[O]) Value(index int) *ValueAssert[*RowAssert[O]] {
	return soft.Call(r, "Value", func() *ValueAssert[*RowAssert[O]] {
		if value, ok := r.values[index]; ok {
			return value
		}

		value, err := r.row.ValueAt(index)
		if err != nil {
			navigationError(r.Description(), err)
		}

		node := newValueAssert(r, value)
		r.values[index] = node

		return node
	})
}

func (r *RowAssert[O]) ValueByName(name string) *ValueAssert[*RowAssert[O]] {
	return soft.Call(r, "ValueByName", func() *ValueAssert[*RowAssert[O]] {
		value, err := r.row.ValueByName(name)
		if err != nil {
			navigationError(r.Description(), err)
		}

		return r.Value(value.ColumnIndex())
	})
}

func (r *RowAssert[O]) ReturnToOrigin() O {
	return soft.Call(r, "ReturnToOrigin", func() O {
		return r.origin
	})
}
