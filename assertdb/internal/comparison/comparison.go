// Package comparison holds the stateless predicates behind the value assertions.
package comparison

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

var ErrInvalidTolerance = errors.New("tolerance does not fit the value type")

// Comparator decides whether an actual value equals an expected one.
type Comparator func(actual, expected data.Value) bool

// DefaultComparator is data.Value equality.
func DefaultComparator(actual, expected data.Value) bool {
	return actual.Equal(expected)
}

// Expected turns an expected object into a value of the actual value's column.
// A data.Value is used as-is.
func Expected(actual data.Value, expected any) data.Value {
	if value, ok := expected.(data.Value); ok {
		return value
	}

	return data.NewValue(actual.ColumnName(), expected)
}

func IsEqual(comparator Comparator, actual data.Value, expected any) bool {
	if comparator == nil {
		comparator = DefaultComparator
	}

	return comparator(actual, Expected(actual, expected))
}

func Compare(actual data.Value, expected any) (int, error) {
	return actual.Compare(Expected(actual, expected))
}

// IsCloseTo reports whether actual lies within tolerance of expected.
// Numbers take a numeric tolerance, date/times a time.Duration.
func IsCloseTo(actual data.Value, expected, tolerance any) (bool, error) {
	want := Expected(actual, expected)

	if actual.Type() == data.DateTime {
		delta, ok := tolerance.(time.Duration)
		if !ok || delta < 0 {
			return false, fmt.Errorf("%w: %v for %s", ErrInvalidTolerance, tolerance, actual.Type())
		}

		got, _ := actual.Time()

		target, ok := want.Time()
		if !ok {
			return false, fmt.Errorf("%w: %s and %s", data.ErrNotComparable, actual.Type(), want.Type())
		}

		return got.Sub(target).Abs() <= delta, nil
	}

	got, gotOK := actual.Float64()
	target, targetOK := want.Float64()
	delta, deltaOK := data.NewValue("", tolerance).Float64()

	if !gotOK || !targetOK {
		return false, fmt.Errorf("%w: %s and %s", data.ErrNotComparable, actual.Type(), want.Type())
	}

	if !deltaOK || delta < 0 {
		return false, fmt.Errorf("%w: %v for %s", ErrInvalidTolerance, tolerance, actual.Type())
	}

	return math.Abs(got-target) <= delta, nil
}

// IsOfType reports whether the value has one of the given types.
func IsOfType(actual data.Value, types ...data.ValueType) bool {
	return slices.Contains(types, actual.Type())
}

// FirstMismatch compares the values in order and returns the index of the first one that differs
// from expected, -1 if all are equal. A length mismatch yields the length of the shorter slice.
func FirstMismatch(actual []data.Value, expected []any) int {
	for i := range min(len(actual), len(expected)) {
		if !IsEqual(nil, actual[i], expected[i]) {
			return i
		}
	}

	if len(actual) != len(expected) {
		return min(len(actual), len(expected))
	}

	return -1
}

// Missing returns the expected objects that no actual value matches, ignoring order.
// Each actual value matches at most one expected object.
func Missing(actual []data.Value, expected []any) []any {
	used := make([]bool, len(actual))

	var missing []any

	for _, want := range expected {
		found := false

		for i, value := range actual {
			if !used[i] && IsEqual(nil, value, want) {
				used[i] = true
				found = true

				break
			}
		}

		if !found {
			missing = append(missing, want)
		}
	}

	return missing
}

// CountNulls returns how many values are NULL.
func CountNulls(values []data.Value) int {
	nulls := 0

	for _, value := range values {
		if value.IsNull() {
			nulls++
		}
	}

	return nulls
}
