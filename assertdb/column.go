package assertdb

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/internal/comparison"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// ColumnAssert asserts on one column of a table or a request.
type ColumnAssert[O Origin] struct {
	soft.Base
	origin      O
	column      data.Column
	description string
	values      map[int]*ValueAssert[*ColumnAssert[O]]
}

func newColumnAssert[O Origin](origin O, column data.Column) *ColumnAssert[O] {
	return &ColumnAssert[O]{
		origin: origin,
		column: column,
		values: make(map[int]*ValueAssert[*ColumnAssert[O]]),
	}
}

func (c *ColumnAssert[O]) Identity() (soft.Node, any) {
	return c.origin, c.column
}

func (c *ColumnAssert[O]) Description() string {
	return describe(c.description, func() string {
		return columnLabel(c.column.Index(), c.column.Name(), c.origin.Description())
	})
}

func (c *ColumnAssert[O]) String() string {
	return c.Description()
}

func (c *ColumnAssert[O]) valueLabel(value data.Value) string {
	return fmt.Sprintf("value at index %d of %s", value.RowIndex(), c.Description())
}

func (c *ColumnAssert[O]) As(description string) *ColumnAssert[O] {
	return soft.Call(c, "As", func() *ColumnAssert[O] {
		c.description = description
		return c
	})
}

func (c *ColumnAssert[O]) HasColumnName(expected string) *ColumnAssert[O] {
	return soft.Call(c, "HasColumnName", func() *ColumnAssert[O] {
		if !strings.EqualFold(c.column.Name(), expected) {
			soft.Fail(c.Description(), "expected column name to be %q but was %q", expected, c.column.Name())
		}

		return c
	})
}

func (c *ColumnAssert[O]) HasNumberOfRows(expected int) *ColumnAssert[O] {
	return soft.Call(c, "HasNumberOfRows", func() *ColumnAssert[O] {
		if actual := c.column.NumberOfRows(); actual != expected {
			soft.Fail(c.Description(), "expected number of rows to be %d but was %d", expected, actual)
		}

		return c
	})
}

// HasValues verifies the values of the column in row order.
func (c *ColumnAssert[O]) HasValues(expected ...any) *ColumnAssert[O] {
	return soft.Call(c, "HasValues", func() *ColumnAssert[O] {
		c.HasNumberOfRows(len(expected))

		actual := c.column.Values()

		if i := comparison.FirstMismatch(actual, expected); i >= 0 {
			soft.Fail(c.Description(), "expected value at index %d to be %s but was %s",
				i, expectedValue(c.column.Name(), expected[i]), actual[i])
		}

		return c
	})
}

// ContainsValues verifies that the column contains the expected values in any order.
func (c *ColumnAssert[O]) ContainsValues(expected ...any) *ColumnAssert[O] {
	return soft.Call(c, "ContainsValues", func() *ColumnAssert[O] {
		actual := c.column.Values()

		if missing := comparison.Missing(actual, expected); len(missing) > 0 {
			soft.Fail(c.Description(), "expected column to contain %s but could not find %s",
				renderExpected(c.column.Name(), expected), renderExpected(c.column.Name(), missing))
		}

		return c
	})
}

func (c *ColumnAssert[O]) ContainsNull() *ColumnAssert[O] {
	return soft.Call(c, "ContainsNull", func() *ColumnAssert[O] {
		if comparison.CountNulls(c.column.Values()) == 0 {
			soft.Fail(c.Description(), "expected column to contain at least one NULL value")
		}

		return c
	})
}

func (c *ColumnAssert[O]) ContainsNoNull() *ColumnAssert[O] {
	return soft.Call(c, "ContainsNoNull", func() *ColumnAssert[O] {
		if nulls := comparison.CountNulls(c.column.Values()); nulls > 0 {
			soft.Fail(c.Description(), "expected column to contain no NULL value but found %d", nulls)
		}

		return c
	})
}

// IsOfType verifies that every value of the column has one of the given types.
// NULL values are of type data.NotIdentified.
func (c *ColumnAssert[O]) IsOfType(types ...data.ValueType) *ColumnAssert[O] {
	return soft.Call(c, "IsOfType", func() *ColumnAssert[O] {
		for _, value := range c.column.Values() {
			if !comparison.IsOfType(value, types...) {
				soft.Fail(c.Description(), "expected value at index %d to be of type %v but was of type %s (%s)",
					value.RowIndex(), types, value.Type(), value)
			}
		}

		return c
	})
}

func (c *ColumnAssert[O]) IsNumber() *ColumnAssert[O] {
	return soft.Call(c, "IsNumber", func() *ColumnAssert[O] {
		return c.IsOfType(data.Number)
	})
}

func (c *ColumnAssert[O]) IsText() *ColumnAssert[O] {
	return soft.Call(c, "IsText", func() *ColumnAssert[O] {
		return c.IsOfType(data.Text)
	})
}

func (c *ColumnAssert[O]) IsBoolean() *ColumnAssert[O] {
	return soft.Call(c, "IsBoolean", func() *ColumnAssert[O] {
		return c.IsOfType(data.Boolean)
	})
}

func (c *ColumnAssert[O]) IsDateTime() *ColumnAssert[O] {
	return soft.Call(c, "IsDateTime", func() *ColumnAssert[O] {
		return c.IsOfType(data.DateTime)
	})
}

func (c *ColumnAssert[O]) Value(rowIndex int) *ValueAssert[*ColumnAssert[O]] {
	return soft.Call(c, "Value", func() *ValueAssert[*ColumnAssert[O]] {
		if value, ok := c.values[rowIndex]; ok {
			return value
		}

		value, err := c.column.ValueAt(rowIndex)
		if err != nil {
			navigationError(c.Description(), err)
		}

		node := newValueAssert(c, value)
		c.values[rowIndex] = node

		return node
	})
}

func (c *ColumnAssert[O]) ReturnToOrigin() O {
	return soft.Call(c, "ReturnToOrigin", func() O {
		return c.origin
	})
}
