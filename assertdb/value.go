package assertdb

import (
	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/internal/comparison"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// ValueAssert asserts on one value of a row, a column, or a change column.
type ValueAssert[O valueOrigin] struct {
	soft.Base
	origin      O
	value       data.Value
	description string
	comparator  Comparator
}

func newValueAssert[O valueOrigin](origin O, value data.Value) *ValueAssert[O] {
	return &ValueAssert[O]{origin: origin, value: value}
}

func (v *ValueAssert[O]) Identity() (soft.Node, any) {
	return v.origin, v.value
}

func (v *ValueAssert[O]) Description() string {
	return describe(v.description, func() string { return v.origin.valueLabel(v.value) })
}

func (v *ValueAssert[O]) String() string {
	return v.Description()
}

func (v *ValueAssert[O]) As(description string) *ValueAssert[O] {
	return soft.Call(v, "As", func() *ValueAssert[O] {
		v.description = description
		return v
	})
}

// UsingComparator replaces value equality for IsEqualTo and IsNotEqualTo.
func (v *ValueAssert[O]) UsingComparator(comparator Comparator) *ValueAssert[O] {
	return soft.Call(v, "UsingComparator", func() *ValueAssert[O] {
		v.comparator = comparator
		return v
	})
}

func (v *ValueAssert[O]) UsingDefaultComparator() *ValueAssert[O] {
	return soft.Call(v, "UsingDefaultComparator", func() *ValueAssert[O] {
		v.comparator = nil
		return v
	})
}

func (v *ValueAssert[O]) IsNull() *ValueAssert[O] {
	return soft.Call(v, "IsNull", func() *ValueAssert[O] {
		if !v.value.IsNull() {
			soft.Fail(v.Description(), "expected NULL but was %s", v.value)
		}

		return v
	})
}

func (v *ValueAssert[O]) IsNotNull() *ValueAssert[O] {
	return soft.Call(v, "IsNotNull", func() *ValueAssert[O] {
		if v.value.IsNull() {
			soft.Fail(v.Description(), "expected a value but was NULL")
		}

		return v
	})
}

func (v *ValueAssert[O]) IsEqualTo(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsEqualTo", func() *ValueAssert[O] {
		if !comparison.IsEqual(comparison.Comparator(v.comparator), v.value, expected) {
			soft.Fail(v.Description(), "expected %s but was %s", v.expected(expected), v.value)
		}

		return v
	})
}

func (v *ValueAssert[O]) IsNotEqualTo(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsNotEqualTo", func() *ValueAssert[O] {
		if comparison.IsEqual(comparison.Comparator(v.comparator), v.value, expected) {
			soft.Fail(v.Description(), "expected a value different from %s but was %s", v.expected(expected), v.value)
		}

		return v
	})
}

func (v *ValueAssert[O]) IsTrue() *ValueAssert[O] {
	return soft.Call(v, "IsTrue", func() *ValueAssert[O] {
		return v.IsBoolean().IsEqualTo(true)
	})
}

func (v *ValueAssert[O]) IsFalse() *ValueAssert[O] {
	return soft.Call(v, "IsFalse", func() *ValueAssert[O] {
		return v.IsBoolean().IsEqualTo(false)
	})
}

func (v *ValueAssert[O]) IsZero() *ValueAssert[O] {
	return soft.Call(v, "IsZero", func() *ValueAssert[O] {
		return v.IsNumber().IsEqualTo(0)
	})
}

func (v *ValueAssert[O]) IsGreaterThan(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsGreaterThan", func() *ValueAssert[O] {
		if v.compare(expected) <= 0 {
			soft.Fail(v.Description(), "expected %s to be greater than %s", v.value, v.expected(expected))
		}

		return v
	})
}

func (v *ValueAssert[O]) IsGreaterThanOrEqualTo(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsGreaterThanOrEqualTo", func() *ValueAssert[O] {
		if v.compare(expected) < 0 {
			soft.Fail(v.Description(), "expected %s to be greater than or equal to %s", v.value, v.expected(expected))
		}

		return v
	})
}

func (v *ValueAssert[O]) IsLessThan(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsLessThan", func() *ValueAssert[O] {
		if v.compare(expected) >= 0 {
			soft.Fail(v.Description(), "expected %s to be less than %s", v.value, v.expected(expected))
		}

		return v
	})
}

func (v *ValueAssert[O]) IsLessThanOrEqualTo(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsLessThanOrEqualTo", func() *ValueAssert[O] {
		if v.compare(expected) > 0 {
			soft.Fail(v.Description(), "expected %s to be less than or equal to %s", v.value, v.expected(expected))
		}

		return v
	})
}

// IsCloseTo verifies a number within a numeric tolerance, or a date/time within a time.Duration.
func (v *ValueAssert[O]) IsCloseTo(expected, tolerance any) *ValueAssert[O] {
	return soft.Call(v, "IsCloseTo", func() *ValueAssert[O] {
		isClose, err := comparison.IsCloseTo(v.value, expected, tolerance)
		if err != nil {
			soft.Fail(v.Description(), "expected %s to be close to %s: %v", v.value, v.expected(expected), err)
		}

		if !isClose {
			soft.Fail(v.Description(), "expected %s to be close to %s with tolerance %v", v.value, v.expected(expected), tolerance)
		}

		return v
	})
}

func (v *ValueAssert[O]) IsBefore(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsBefore", func() *ValueAssert[O] {
		return v.IsDateTime().IsLessThan(expected)
	})
}

func (v *ValueAssert[O]) IsAfter(expected any) *ValueAssert[O] {
	return soft.Call(v, "IsAfter", func() *ValueAssert[O] {
		return v.IsDateTime().IsGreaterThan(expected)
	})
}

func (v *ValueAssert[O]) IsOfType(types ...data.ValueType) *ValueAssert[O] {
	return soft.Call(v, "IsOfType", func() *ValueAssert[O] {
		if !comparison.IsOfType(v.value, types...) {
			soft.Fail(v.Description(), "expected value to be of type %v but was of type %s (%s)", types, v.value.Type(), v.value)
		}

		return v
	})
}

func (v *ValueAssert[O]) IsNumber() *ValueAssert[O] {
	return soft.Call(v, "IsNumber", func() *ValueAssert[O] {
		return v.IsOfType(data.Number)
	})
}

func (v *ValueAssert[O]) IsText() *ValueAssert[O] {
	return soft.Call(v, "IsText", func() *ValueAssert[O] {
		return v.IsOfType(data.Text)
	})
}

func (v *ValueAssert[O]) IsBoolean() *ValueAssert[O] {
	return soft.Call(v, "IsBoolean", func() *ValueAssert[O] {
		return v.IsOfType(data.Boolean)
	})
}

func (v *ValueAssert[O]) IsDateTime() *ValueAssert[O] {
	return soft.Call(v, "IsDateTime", func() *ValueAssert[O] {
		return v.IsOfType(data.DateTime)
	})
}

func (v *ValueAssert[O]) IsBytes() *ValueAssert[O] {
	return soft.Call(v, "IsBytes", func() *ValueAssert[O] {
		return v.IsOfType(data.Bytes)
	})
}

func (v *ValueAssert[O]) IsUUID() *ValueAssert[O] {
	return soft.Call(v, "IsUUID", func() *ValueAssert[O] {
		return v.IsOfType(data.UUID)
	})
}

func (v *ValueAssert[O]) ReturnToOrigin() O {
	return soft.Call(v, "ReturnToOrigin", func() O {
		return v.origin
	})
}

func (v *ValueAssert[O]) expected(expected any) data.Value {
	return expectedValue(v.value.ColumnName(), expected)
}

// compare orders the value against expected, failing when the two cannot be ordered.
func (v *ValueAssert[O]) compare(expected any) int {
	order, err := comparison.Compare(v.value, expected)
	if err != nil {
		soft.Fail(v.Description(), "expected %s to be comparable with %s: %v", v.value, v.expected(expected), err)
	}

	return order
}
