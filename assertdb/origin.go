package assertdb

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// Origin is a node that other nodes are navigated to from. ReturnToOrigin returns it.
type Origin interface {
	soft.Node
	Description() string
}

// valueOrigin is an origin of value nodes, labeling the values it hands out.
type valueOrigin interface {
	Origin
	valueLabel(value data.Value) string
}

// Comparator decides whether an actual value equals an expected one.
type Comparator func(actual, expected data.Value) bool

// rootState is the identity of a root node: its snapshot plus a description set with As.
type rootState[V any] struct {
	value       V
	description string
}

// navigationError raises a misuse of the navigation API (unknown index or column).
// It is not an assertion failure, so a soft session lets it propagate.
func navigationError(description string, err error) {
	panic(fmt.Errorf("%s: %w", description, err))
}

func tableLabel(name string) string {
	return strings.ToUpper(name) + " table"
}

func rowLabel(row data.Row, origin string) string {
	if row.Point() != data.NoPoint {
		return fmt.Sprintf("row at %s of %s", row.Point(), origin)
	}

	return fmt.Sprintf("row at index %d of %s", row.Index(), origin)
}

func columnLabel(index int, name, origin string) string {
	return fmt.Sprintf("column at index %d (column name : %s) of %s", index, name, origin)
}

func describe(override string, fallback func() string) string {
	if override != "" {
		return override
	}

	return fallback()
}

func renderAll[T fmt.Stringer](values []T) string {
	rendered := make([]string, len(values))
	for i, value := range values {
		rendered[i] = value.String()
	}

	return "[" + strings.Join(rendered, ", ") + "]"
}

func renderExpected(columnName string, expected []any) string {
	values := make([]data.Value, len(expected))
	for i, object := range expected {
		values[i] = expectedValue(columnName, object)
	}

	return renderAll(values)
}

func expectedValue(columnName string, object any) data.Value {
	if value, ok := object.(data.Value); ok {
		return value
	}

	return data.NewValue(columnName, object)
}
