package assertdb

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// ChangeColumnAssert asserts on one column of a change, comparing its start and end point values.
type ChangeColumnAssert struct {
	soft.Base
	origin      *ChangeAssert
	index       int
	column      data.ChangeColumn
	description string
	values      map[data.Point]*ValueAssert[*ChangeColumnAssert]
}

func newChangeColumnAssert(origin *ChangeAssert, index int, column data.ChangeColumn) *ChangeColumnAssert {
	return &ChangeColumnAssert{
		origin: origin,
		index:  index,
		column: column,
		values: make(map[data.Point]*ValueAssert[*ChangeColumnAssert]),
	}
}

func (c *ChangeColumnAssert) Description() string {
	return describe(c.description, func() string {
		return columnLabel(c.index, c.column.Name(), c.origin.Description())
	})
}

func (c *ChangeColumnAssert) String() string {
	return c.Description()
}

// ColumnName returns the name of the column.
func (c *ChangeColumnAssert) ColumnName() string {
	return c.column.Name()
}

func (c *ChangeColumnAssert) valueLabel(value data.Value) string {
	return fmt.Sprintf("value at %s of %s", value.Point(), c.Description())
}

func (c *ChangeColumnAssert) As(description string) *ChangeColumnAssert {
	return soft.Call(c, "As", func() *ChangeColumnAssert {
		c.description = description
		return c
	})
}

func (c *ChangeColumnAssert) HasColumnName(expected string) *ChangeColumnAssert {
	return soft.Call(c, "HasColumnName", func() *ChangeColumnAssert {
		if !strings.EqualFold(c.column.Name(), expected) {
			soft.Fail(c.Description(), "expected column name to be %q but was %q", expected, c.column.Name())
		}

		return c
	})
}

func (c *ChangeColumnAssert) IsModified() *ChangeColumnAssert {
	return soft.Call(c, "IsModified", func() *ChangeColumnAssert {
		if !c.column.IsModified() {
			soft.Fail(c.Description(), "expected column to be modified but both points hold %s", c.column.ValueAtStartPoint())
		}

		return c
	})
}

func (c *ChangeColumnAssert) IsNotModified() *ChangeColumnAssert {
	return soft.Call(c, "IsNotModified", func() *ChangeColumnAssert {
		if c.column.IsModified() {
			soft.Fail(c.Description(), "expected column not to be modified but it changed from %s to %s",
				c.column.ValueAtStartPoint(), c.column.ValueAtEndPoint())
		}

		return c
	})
}

// HasValues verifies the value at the start point and the value at the end point.
func (c *ChangeColumnAssert) HasValues(atStart, atEnd any) *ChangeColumnAssert {
	return soft.Call(c, "HasValues", func() *ChangeColumnAssert {
		wantStart := expectedValue(c.column.Name(), atStart)
		wantEnd := expectedValue(c.column.Name(), atEnd)

		if !c.column.ValueAtStartPoint().Equal(wantStart) || !c.column.ValueAtEndPoint().Equal(wantEnd) {
			soft.Fail(c.Description(), "expected values to be %s then %s but were %s then %s",
				wantStart, wantEnd, c.column.ValueAtStartPoint(), c.column.ValueAtEndPoint())
		}

		return c
	})
}

func (c *ChangeColumnAssert) ValueAtStartPoint() *ValueAssert[*ChangeColumnAssert] {
	return soft.Call(c, "ValueAtStartPoint", func() *ValueAssert[*ChangeColumnAssert] {
		return c.valueAt(data.StartPoint, c.column.ValueAtStartPoint())
	})
}

func (c *ChangeColumnAssert) ValueAtEndPoint() *ValueAssert[*ChangeColumnAssert] {
	return soft.Call(c, "ValueAtEndPoint", func() *ValueAssert[*ChangeColumnAssert] {
		return c.valueAt(data.EndPoint, c.column.ValueAtEndPoint())
	})
}

func (c *ChangeColumnAssert) ReturnToOrigin() *ChangeAssert {
	return soft.Call(c, "ReturnToOrigin", func() *ChangeAssert {
		return c.origin
	})
}

func (c *ChangeColumnAssert) valueAt(point data.Point, value data.Value) *ValueAssert[*ChangeColumnAssert] {
	if node, ok := c.values[point]; ok {
		return node
	}

	node := newValueAssert(c, value)
	c.values[point] = node

	return node
}

// changeColumnDescriptor rebuilds a ChangeColumnAssert from its origin, its column name and
// its two point values. The column index is resolved on the origin change.
func changeColumnDescriptor() soft.Descriptor {
	return soft.Descriptor{
		Type:   reflect.TypeFor[*ChangeColumnAssert](),
		Fields: []string{"origin", "column_name", "value_at_start_point", "value_at_end_point"},
		Extract: func(raw soft.Node) ([]any, error) {
			column, ok := raw.(*ChangeColumnAssert)
			if !ok {
				return nil, fmt.Errorf("%T is not a change column", raw)
			}

			return []any{column.origin, column.column.Name(), column.column.ValueAtStartPoint(), column.column.ValueAtEndPoint()}, nil
		},
		Build: func(fields []any) (soft.Node, error) {
			origin, ok := soft.Field[*ChangeAssert](fields, 0)
			if !ok || origin == nil {
				return nil, fmt.Errorf("origin is %T, want *ChangeAssert", fields[0])
			}

			name, nameOK := soft.Field[string](fields, 1)
			atStart, startOK := soft.Field[data.Value](fields, 2)
			atEnd, endOK := soft.Field[data.Value](fields, 3)

			if !nameOK || !startOK || !endOK {
				return nil, fmt.Errorf("change column fields have unexpected types %T, %T, %T", fields[1], fields[2], fields[3])
			}

			resolved, err := origin.change.ColumnByName(name)
			if err != nil {
				return nil, err
			}

			return newChangeColumnAssert(origin, resolved.Index(), data.NewChangeColumn(name, atStart, atEnd)), nil
		},
	}
}
