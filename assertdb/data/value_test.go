package data_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

func Test_NewValue_ClassifiesAndNormalizes(t *testing.T) {
	id := uuid.MustParse("7d9e3f7c-2b8e-4a8f-9c3e-0f3a1d2b4c5d")
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		object       any
		expectedType data.ValueType
		expected     any
	}{
		{name: "nil", object: nil, expectedType: data.NotIdentified, expected: nil},
		{name: "bool", object: true, expectedType: data.Boolean, expected: true},
		{name: "string", object: "Joe", expectedType: data.Text, expected: "Joe"},
		{name: "bytes", object: []byte{0x01, 0x02}, expectedType: data.Bytes, expected: []byte{0x01, 0x02}},
		{name: "int", object: 7, expectedType: data.Number, expected: int64(7)},
		{name: "int32", object: int32(7), expectedType: data.Number, expected: int64(7)},
		{name: "uint8", object: uint8(7), expectedType: data.Number, expected: int64(7)},
		{name: "huge uint64", object: uint64(1 << 63), expectedType: data.Number, expected: float64(1 << 63)},
		{name: "float32", object: float32(1.5), expectedType: data.Number, expected: 1.5},
		{name: "time", object: now, expectedType: data.DateTime, expected: now},
		{name: "uuid", object: id, expectedType: data.UUID, expected: id},
		{name: "raw uuid bytes", object: [16]byte(id), expectedType: data.UUID, expected: id},
		{name: "unknown", object: struct{ X int }{X: 1}, expectedType: data.NotIdentified, expected: struct{ X int }{X: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value := data.NewValue("COL", tc.object)

			assert.Equal(t, tc.expectedType, value.Type())
			assert.Equal(t, tc.expected, value.Object())
			assert.Equal(t, "COL", value.ColumnName())
			assert.Equal(t, -1, value.RowIndex())
			assert.Equal(t, data.NoPoint, value.Point())
		})
	}
}

func Test_Value_Equal(t *testing.T) {
	id := uuid.MustParse("7d9e3f7c-2b8e-4a8f-9c3e-0f3a1d2b4c5d")
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		left     any
		right    any
		expected bool
	}{
		{name: "null and null", left: nil, right: nil, expected: true},
		{name: "null and number", left: nil, right: 1, expected: false},
		{name: "int and int64", left: 1, right: int64(1), expected: true},
		{name: "int and float", left: 2, right: 2.0, expected: true},
		{name: "different numbers", left: 2, right: 2.5, expected: false},
		{name: "text", left: "Joe", right: "Joe", expected: true},
		{name: "text case matters", left: "Joe", right: "joe", expected: false},
		{name: "bool", left: true, right: false, expected: false},
		{name: "bytes", left: []byte("ab"), right: []byte("ab"), expected: true},
		{name: "uuid and text", left: id, right: id.String(), expected: true},
		{name: "date time and text", left: day, right: "2026-10-19", expected: true},
		{name: "date time and unparsable text", left: day, right: "yesterday", expected: false},
		{name: "number and text", left: 1, right: "1", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			left := data.NewValue("L", tc.left)
			right := data.NewValue("R", tc.right)

			assert.Equal(t, tc.expected, left.Equal(right))
			assert.Equal(t, tc.expected, right.Equal(left), "equality is symmetric")
		})
	}
}

func Test_Value_Compare(t *testing.T) {
	result, err := data.NewValue("N", 3).Compare(data.NewValue("N", 2.5))
	require.NoError(t, err)
	assert.Equal(t, 1, result)

	result, err = data.NewValue("T", "a").Compare(data.NewValue("T", "b"))
	require.NoError(t, err)
	assert.Equal(t, -1, result)

	result, err = data.NewValue("D", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Compare(data.NewValue("D", "2026-01-01"))
	require.NoError(t, err)
	assert.Zero(t, result)
}

func Test_Value_Compare_ShouldFail_ForUnorderedValues(t *testing.T) {
	tests := []struct {
		name  string
		left  any
		right any
	}{
		{name: "null", left: nil, right: 1},
		{name: "booleans", left: true, right: false},
		{name: "number and text", left: 1, right: "1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := data.NewValue("L", tc.left).Compare(data.NewValue("R", tc.right))

			assert.ErrorIs(t, err, data.ErrNotComparable)
		})
	}
}

func Test_Value_String(t *testing.T) {
	assert.Equal(t, "null", data.NewValue("C", nil).String())
	assert.Equal(t, `"Joe"`, data.NewValue("C", "Joe").String())
	assert.Equal(t, "0x0a0b", data.NewValue("C", []byte{0x0a, 0x0b}).String())
	assert.Equal(t, "42", data.NewValue("C", int16(42)).String())
	assert.Equal(t, "true", data.NewValue("C", true).String())
	assert.Equal(t, "2026-10-19T12:00:00Z", data.NewValue("C", time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)).String())
}

func Test_ValueType_And_Point_String(t *testing.T) {
	assert.Equal(t, "NUMBER", data.Number.String())
	assert.Equal(t, "DATE_TIME", data.DateTime.String())
	assert.Equal(t, "NOT_IDENTIFIED", data.ValueType(99).String())
	assert.Equal(t, "start point", data.StartPoint.String())
	assert.Equal(t, "end point", data.EndPoint.String())
}

func Test_ParseValueType(t *testing.T) {
	parsed, err := data.ParseValueType("date_time")
	require.NoError(t, err)
	assert.Equal(t, data.DateTime, parsed)

	_, err = data.ParseValueType("INTEGER")
	assert.ErrorIs(t, err, data.ErrUnknownValueType)
}
