package assertdb

import (
	"fmt"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// RequestAssert is the root node asserting on the result of an SQL query.
type RequestAssert struct {
	soft.Base
	request     data.Request
	description string
	navigator   gridNavigator[*RequestAssert]
}

// AssertThatRequest starts a strict assertion chain on request: the first failure panics.
func AssertThatRequest(request data.Request) *RequestAssert {
	return newRequestAssert(rootState[data.Request]{value: request})
}

func newRequestAssert(state rootState[data.Request]) *RequestAssert {
	return &RequestAssert{
		request:     state.value,
		description: state.description,
		navigator:   newGridNavigator[*RequestAssert](),
	}
}

func (r *RequestAssert) Identity() (soft.Node, any) {
	return nil, rootState[data.Request]{value: r.request, description: r.description}
}

func (r *RequestAssert) Description() string {
	return describe(r.description, func() string { return fmt.Sprintf("'%s' request", r.request.SQL()) })
}

func (r *RequestAssert) String() string {
	return r.Description()
}

func (r *RequestAssert) As(description string) *RequestAssert {
	return soft.Call(r, "As", func() *RequestAssert {
		r.description = description
		return r
	})
}

func (r *RequestAssert) HasNumberOfRows(expected int) *RequestAssert {
	return soft.Call(r, "HasNumberOfRows", func() *RequestAssert {
		checkNumberOfRows(r.Description(), r.request, expected)
		return r
	})
}

func (r *RequestAssert) HasNumberOfColumns(expected int) *RequestAssert {
	return soft.Call(r, "HasNumberOfColumns", func() *RequestAssert {
		checkNumberOfColumns(r.Description(), r.request.NumberOfColumns(), expected)
		return r
	})
}

func (r *RequestAssert) HasColumns(names ...string) *RequestAssert {
	return soft.Call(r, "HasColumns", func() *RequestAssert {
		checkColumns(r.Description(), r.request, names)
		return r
	})
}

func (r *RequestAssert) IsEmpty() *RequestAssert {
	return soft.Call(r, "IsEmpty", func() *RequestAssert {
		return r.HasNumberOfRows(0)
	})
}

func (r *RequestAssert) Row(index int) *RowAssert[*RequestAssert] {
	return soft.Call(r, "Row", func() *RowAssert[*RequestAssert] {
		return r.navigator.row(r, r.request, index)
	})
}

func (r *RequestAssert) Column(index int) *ColumnAssert[*RequestAssert] {
	return soft.Call(r, "Column", func() *ColumnAssert[*RequestAssert] {
		return r.navigator.column(r, r.request, index)
	})
}

func (r *RequestAssert) ColumnByName(name string) *ColumnAssert[*RequestAssert] {
	return soft.Call(r, "ColumnByName", func() *ColumnAssert[*RequestAssert] {
		return r.navigator.columnByName(r, r.request, name)
	})
}
