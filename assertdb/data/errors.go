package data

import "errors"

var (
	ErrIndexOutOfBounds         = errors.New("index out of bounds")
	ErrColumnNotFound           = errors.New("column not found")
	ErrDuplicateColumn          = errors.New("duplicate column name")
	ErrRowWidthMismatch         = errors.New("row width does not match the number of columns")
	ErrEmptyTableName           = errors.New("table name must not be empty")
	ErrEmptyRequest             = errors.New("request sql must not be empty")
	ErrPrimaryKeyColumnNotFound = errors.New("primary key column is not a column of the table")
	ErrMissingPrimaryKey        = errors.New("table has no primary key")
	ErrDuplicatePrimaryKey      = errors.New("duplicate primary key")
	ErrTableMismatch            = errors.New("start and end point tables do not match")
	ErrChangeNotFound           = errors.New("change not found")
	ErrNotComparable            = errors.New("values are not comparable")
	ErrUnknownValueType         = errors.New("unknown value type")
)
