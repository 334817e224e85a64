package assertdb

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// ChangesAssert is the root node asserting on the changes between two points in time.
type ChangesAssert struct {
	soft.Base
	changes     data.Changes
	description string
	children    map[int]*ChangeAssert
}

// AssertThatChanges starts a strict assertion chain on changes: the first failure panics.
func AssertThatChanges(changes data.Changes) *ChangesAssert {
	return newChangesAssert(rootState[data.Changes]{value: changes})
}

func newChangesAssert(state rootState[data.Changes]) *ChangesAssert {
	return &ChangesAssert{
		changes:     state.value,
		description: state.description,
		children:    make(map[int]*ChangeAssert),
	}
}

func (c *ChangesAssert) Identity() (soft.Node, any) {
	return nil, rootState[data.Changes]{value: c.changes, description: c.description}
}

func (c *ChangesAssert) Description() string {
	return describe(c.description, func() string {
		names := c.changes.TableNames()

		switch len(names) {
		case 0:
			return "changes"
		case 1:
			return "changes on " + tableLabel(names[0])
		default:
			return "changes on tables " + strings.ToUpper(strings.Join(names, ", "))
		}
	})
}

func (c *ChangesAssert) String() string {
	return c.Description()
}

func (c *ChangesAssert) As(description string) *ChangesAssert {
	return soft.Call(c, "As", func() *ChangesAssert {
		c.description = description
		return c
	})
}

func (c *ChangesAssert) HasNumberOfChanges(expected int) *ChangesAssert {
	return soft.Call(c, "HasNumberOfChanges", func() *ChangesAssert {
		if actual := c.changes.NumberOfChanges(); actual != expected {
			soft.Fail(c.Description(), "expected number of changes to be %d but was %d", expected, actual)
		}

		return c
	})
}

func (c *ChangesAssert) IsEmpty() *ChangesAssert {
	return soft.Call(c, "IsEmpty", func() *ChangesAssert {
		return c.HasNumberOfChanges(0)
	})
}

func (c *ChangesAssert) Change(index int) *ChangeAssert {
	return soft.Call(c, "Change", func() *ChangeAssert {
		if child, ok := c.children[index]; ok {
			return child
		}

		change, err := c.changes.ChangeAt(index)
		if err != nil {
			navigationError(c.Description(), err)
		}

		child := newChangeAssert(c, change)
		c.children[index] = child

		return child
	})
}

// ChangeWithPrimaryKey navigates to the first change of the row with the given primary key values.
func (c *ChangesAssert) ChangeWithPrimaryKey(values ...any) *ChangeAssert {
	return soft.Call(c, "ChangeWithPrimaryKey", func() *ChangeAssert {
		change, err := c.changes.ChangeWithPrimaryKey(values...)
		if err != nil {
			navigationError(c.Description(), err)
		}

		return c.Change(change.Index())
	})
}

func changeLabel(change data.Change, origin string) string {
	return fmt.Sprintf("change at index %d (on table : %s and with primary key : %s) of %s",
		change.Index(), strings.ToUpper(change.TableName()), renderAll(change.PrimaryKey()), origin)
}
