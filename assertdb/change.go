package assertdb

import (
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// ChangeAssert asserts on one change of a ChangesAssert.
type ChangeAssert struct {
	soft.Base
	origin      *ChangesAssert
	change      data.Change
	description string
	rows        map[data.Point]*RowAssert[*ChangeAssert]
	columns     map[int]*ChangeColumnAssert
}

func newChangeAssert(origin *ChangesAssert, change data.Change) *ChangeAssert {
	return &ChangeAssert{
		origin:  origin,
		change:  change,
		rows:    make(map[data.Point]*RowAssert[*ChangeAssert]),
		columns: make(map[int]*ChangeColumnAssert),
	}
}

func (c *ChangeAssert) Identity() (soft.Node, any) {
	return c.origin, c.change
}

func (c *ChangeAssert) Description() string {
	return describe(c.description, func() string { return changeLabel(c.change, c.origin.Description()) })
}

func (c *ChangeAssert) String() string {
	return c.Description()
}

func (c *ChangeAssert) As(description string) *ChangeAssert {
	return soft.Call(c, "As", func() *ChangeAssert {
		c.description = description
		return c
	})
}

func (c *ChangeAssert) IsOfType(expected data.ChangeType) *ChangeAssert {
	return soft.Call(c, "IsOfType", func() *ChangeAssert {
		if actual := c.change.Type(); actual != expected {
			soft.Fail(c.Description(), "expected change to be of type %s but was of type %s", expected, actual)
		}

		return c
	})
}

func (c *ChangeAssert) IsCreation() *ChangeAssert {
	return soft.Call(c, "IsCreation", func() *ChangeAssert {
		return c.IsOfType(data.Creation)
	})
}

func (c *ChangeAssert) IsModification() *ChangeAssert {
	return soft.Call(c, "IsModification", func() *ChangeAssert {
		return c.IsOfType(data.Modification)
	})
}

func (c *ChangeAssert) IsDeletion() *ChangeAssert {
	return soft.Call(c, "IsDeletion", func() *ChangeAssert {
		return c.IsOfType(data.Deletion)
	})
}

func (c *ChangeAssert) IsOnTable(name string) *ChangeAssert {
	return soft.Call(c, "IsOnTable", func() *ChangeAssert {
		if !strings.EqualFold(c.change.TableName(), name) {
			soft.Fail(c.Description(), "expected change to be on table %s but was on table %s",
				strings.ToUpper(name), strings.ToUpper(c.change.TableName()))
		}

		return c
	})
}

func (c *ChangeAssert) HasPrimaryKey(values ...any) *ChangeAssert {
	return soft.Call(c, "HasPrimaryKey", func() *ChangeAssert {
		if !c.change.HasPrimaryKey(values...) {
			soft.Fail(c.Description(), "expected primary key to be %s but was %s",
				renderExpected("", values), renderAll(c.change.PrimaryKey()))
		}

		return c
	})
}

func (c *ChangeAssert) HasNumberOfModifiedColumns(expected int) *ChangeAssert {
	return soft.Call(c, "HasNumberOfModifiedColumns", func() *ChangeAssert {
		modified := c.change.ModifiedColumns()

		if len(modified) != expected {
			names := c.change.ColumnNames()
			modifiedNames := make([]string, len(modified))

			for i, index := range modified {
				modifiedNames[i] = names[index]
			}

			soft.Fail(c.Description(), "expected %d modified columns but was %d %v",
				expected, len(modified), modifiedNames)
		}

		return c
	})
}

func (c *ChangeAssert) RowAtStartPoint() *RowAssert[*ChangeAssert] {
	return soft.Call(c, "RowAtStartPoint", func() *RowAssert[*ChangeAssert] {
		return c.rowAt(data.StartPoint, c.change.RowAtStartPoint())
	})
}

func (c *ChangeAssert) RowAtEndPoint() *RowAssert[*ChangeAssert] {
	return soft.Call(c, "RowAtEndPoint", func() *RowAssert[*ChangeAssert] {
		return c.rowAt(data.EndPoint, c.change.RowAtEndPoint())
	})
}

func (c *ChangeAssert) Column(index int) *ChangeColumnAssert {
	return soft.Call(c, "Column", func() *ChangeColumnAssert {
		if column, ok := c.columns[index]; ok {
			return column
		}

		column, err := c.change.ColumnAt(index)
		if err != nil {
			navigationError(c.Description(), err)
		}

		node := newChangeColumnAssert(c, index, column)
		c.columns[index] = node

		return node
	})
}

func (c *ChangeAssert) ColumnByName(name string) *ChangeColumnAssert {
	return soft.Call(c, "ColumnByName", func() *ChangeColumnAssert {
		column, err := c.change.ColumnByName(name)
		if err != nil {
			navigationError(c.Description(), err)
		}

		return c.Column(column.Index())
	})
}

func (c *ChangeAssert) ReturnToOrigin() *ChangesAssert {
	return soft.Call(c, "ReturnToOrigin", func() *ChangesAssert {
		return c.origin
	})
}

func (c *ChangeAssert) rowAt(point data.Point, row data.Row) *RowAssert[*ChangeAssert] {
	if node, ok := c.rows[point]; ok {
		return node
	}

	node := newRowAssert(c, row)
	c.rows[point] = node

	return node
}
