package data

import (
	"bytes"
	"cmp"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValueType is the category of a database value.
type ValueType int

const (
	NotIdentified ValueType = iota
	Bytes
	Boolean
	Text
	Number
	DateTime
	UUID
)

func (t ValueType) String() string {
	switch t {
	case Bytes:
		return "BYTES"
	case Boolean:
		return "BOOLEAN"
	case Text:
		return "TEXT"
	case Number:
		return "NUMBER"
	case DateTime:
		return "DATE_TIME"
	case UUID:
		return "UUID"
	default:
		return "NOT_IDENTIFIED"
	}
}

// ParseValueType returns the ValueType with the given name, e.g. "DATE_TIME". Matching ignores case.
func ParseValueType(name string) (ValueType, error) {
	for t := NotIdentified; t <= UUID; t++ {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}

	return NotIdentified, fmt.Errorf("%w: %q", ErrUnknownValueType, name)
}

// Point is the point in time of a row or a value inside a change.
type Point int

const (
	NoPoint Point = iota
	StartPoint
	EndPoint
)

func (p Point) String() string {
	switch p {
	case StartPoint:
		return "start point"
	case EndPoint:
		return "end point"
	default:
		return "no point"
	}
}

// dateTimeLayouts are tried, in order, when a text value is compared with a date/time value.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// Value is one cell of a table, a request or a change.
//
// It should only be constructed with NewValue, which classifies and normalizes the raw object:
//   - all signed and unsigned integers become int64 (uint64 beyond math.MaxInt64 becomes float64)
//   - float32 becomes float64
//   - [16]byte becomes uuid.UUID
//   - driver.Valuer implementations are resolved to their driver value first
type Value struct {
	columnName  string
	columnIndex int
	rowIndex    int
	point       Point
	object      any
	typ         ValueType
}

// NewValue is a factory method for a Value that is not yet positioned in a row or column.
func NewValue(columnName string, object any) Value {
	normalized, typ := normalize(object)

	return Value{
		columnName:  columnName,
		columnIndex: -1,
		rowIndex:    -1,
		object:      normalized,
		typ:         typ,
	}
}

func (v Value) positioned(rowIndex, columnIndex int, point Point) Value {
	v.rowIndex = rowIndex
	v.columnIndex = columnIndex
	v.point = point

	return v
}

func (v Value) ColumnName() string {
	return v.columnName
}

// ColumnIndex returns the index of the column the value belongs to, -1 if unknown.
func (v Value) ColumnIndex() int {
	return v.columnIndex
}

// RowIndex returns the index of the row the value belongs to, -1 if unknown.
func (v Value) RowIndex() int {
	return v.rowIndex
}

func (v Value) Point() Point {
	return v.point
}

// Object returns the normalized Go value, nil for SQL NULL.
func (v Value) Object() any {
	return v.object
}

func (v Value) Type() ValueType {
	return v.typ
}

func (v Value) IsNull() bool {
	return v.object == nil
}

// Equal reports whether two values represent the same database value.
//
// Numbers compare across integer and floating point representations, text compares with
// UUIDs and date/times by parsing it.
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return v.IsNull() && other.IsNull()
	}

	switch {
	case v.typ == Number && other.typ == Number:
		return compareNumbers(v.object, other.object) == 0

	case v.typ == Bytes && other.typ == Bytes:
		return bytes.Equal(v.object.([]byte), other.object.([]byte)) //nolint:forcetypeassert // typed by normalize

	case v.typ == DateTime || other.typ == DateTime:
		left, leftOK := asTime(v)
		right, rightOK := asTime(other)

		return leftOK && rightOK && left.Equal(right)

	case v.typ == UUID || other.typ == UUID:
		left, leftOK := asUUID(v)
		right, rightOK := asUUID(other)

		return leftOK && rightOK && left == right

	case v.typ == NotIdentified || other.typ == NotIdentified:
		return reflect.DeepEqual(v.object, other.object)

	default:
		return v.typ == other.typ && v.object == other.object
	}
}

// Compare orders two values of an ordered type (number, text, date/time).
// It returns ErrNotComparable for any other combination, including NULL.
func (v Value) Compare(other Value) (int, error) {
	if v.IsNull() || other.IsNull() {
		return 0, fmt.Errorf("%w: NULL has no order", ErrNotComparable)
	}

	switch {
	case v.typ == Number && other.typ == Number:
		return compareNumbers(v.object, other.object), nil

	case v.typ == DateTime || other.typ == DateTime:
		left, leftOK := asTime(v)
		right, rightOK := asTime(other)

		if leftOK && rightOK {
			return left.Compare(right), nil
		}

	case v.typ == Text && other.typ == Text:
		return strings.Compare(v.object.(string), other.object.(string)), nil //nolint:forcetypeassert // typed by normalize
	}

	return 0, fmt.Errorf("%w: %s and %s", ErrNotComparable, v.typ, other.typ)
}

// Float64 returns a numeric value as float64.
func (v Value) Float64() (float64, bool) {
	if v.typ != Number {
		return 0, false
	}

	return toFloat(v.object), true
}

// Time returns a date/time value, parsing text values.
func (v Value) Time() (time.Time, bool) {
	return asTime(v)
}

// String renders the value the way it appears in assertion messages.
func (v Value) String() string {
	switch v.typ {
	case NotIdentified:
		if v.object == nil {
			return "null"
		}

		return fmt.Sprintf("%v", v.object)
	case Text:
		return fmt.Sprintf("%q", v.object)
	case Bytes:
		return "0x" + hex.EncodeToString(v.object.([]byte)) //nolint:forcetypeassert // typed by normalize
	case DateTime:
		return v.object.(time.Time).Format(time.RFC3339Nano) //nolint:forcetypeassert // typed by normalize
	default:
		return fmt.Sprintf("%v", v.object)
	}
}

// key renders a normalized, type-tagged identity of the value, used to match primary keys.
func (v Value) key() string {
	if v.typ == Number {
		f := toFloat(v.object)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return fmt.Sprintf("%s:%d", v.typ, int64(f))
		}
	}

	if t, ok := asTime(v); ok {
		return fmt.Sprintf("%s:%s", DateTime, t.UTC().Format(time.RFC3339Nano))
	}

	return fmt.Sprintf("%s:%s", v.typ, v.String())
}

//nolint:cyclop // flat type switch
func normalize(object any) (any, ValueType) {
	if valuer, ok := object.(driver.Valuer); ok && !isUUID(object) {
		resolved, err := valuer.Value()
		if err == nil {
			object = resolved
		}
	}

	switch o := object.(type) {
	case nil:
		return nil, NotIdentified
	case bool:
		return o, Boolean
	case string:
		return o, Text
	case []byte:
		return bytes.Clone(o), Bytes
	case int:
		return int64(o), Number
	case int8:
		return int64(o), Number
	case int16:
		return int64(o), Number
	case int32:
		return int64(o), Number
	case int64:
		return o, Number
	case uint:
		return normalizeUnsigned(uint64(o))
	case uint8:
		return int64(o), Number
	case uint16:
		return int64(o), Number
	case uint32:
		return int64(o), Number
	case uint64:
		return normalizeUnsigned(o)
	case float32:
		return float64(o), Number
	case float64:
		return o, Number
	case time.Time:
		return o, DateTime
	case uuid.UUID:
		return o, UUID
	case [16]byte:
		return uuid.UUID(o), UUID
	default:
		return o, NotIdentified
	}
}

func normalizeUnsigned(u uint64) (any, ValueType) {
	if u > math.MaxInt64 {
		return float64(u), Number
	}

	return int64(u), Number
}

func isUUID(object any) bool {
	_, ok := object.(uuid.UUID)

	return ok
}

func compareNumbers(left, right any) int {
	l, lInt := left.(int64)
	r, rInt := right.(int64)

	if lInt && rInt {
		return cmp.Compare(l, r)
	}

	return cmp.Compare(toFloat(left), toFloat(right))
}

func toFloat(number any) float64 {
	switch n := number.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return math.NaN()
	}
}

func asTime(v Value) (time.Time, bool) {
	switch o := v.object.(type) {
	case time.Time:
		return o, true
	case string:
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, o); err == nil {
				return parsed, true
			}
		}
	}

	return time.Time{}, false
}

func asUUID(v Value) (uuid.UUID, bool) {
	switch o := v.object.(type) {
	case uuid.UUID:
		return o, true
	case string:
		parsed, err := uuid.Parse(o)

		return parsed, err == nil
	case []byte:
		parsed, err := uuid.FromBytes(o)

		return parsed, err == nil
	}

	return uuid.UUID{}, false
}
