package adapters

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// stdRows wraps standard library sql.Rows to implement DBRows interface
type stdRows struct {
	rows      *sql.Rows
	typeNames []string
}

func (s *stdRows) Columns() ([]string, error) {
	return s.rows.Columns()
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Values() ([]any, error) {
	if s.typeNames == nil {
		columnTypes, err := s.rows.ColumnTypes()
		if err != nil {
			return nil, err
		}

		s.typeNames = make([]string, len(columnTypes))
		for i, columnType := range columnTypes {
			s.typeNames[i] = strings.ToUpper(columnType.DatabaseTypeName())
		}
	}

	values := make([]any, len(s.typeNames))
	destinations := make([]any, len(s.typeNames))

	for i := range values {
		destinations[i] = &values[i]
	}

	if err := s.rows.Scan(destinations...); err != nil {
		return nil, err
	}

	for i, value := range values {
		values[i] = fromDriver(s.typeNames[i], value)
	}

	return values, nil
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// fromDriver converts the textual representations some drivers return for numerics and UUIDs.
func fromDriver(typeName string, value any) any {
	raw, ok := value.([]byte)
	if !ok {
		return value
	}

	switch typeName {
	case "NUMERIC", "DECIMAL":
		if float, err := strconv.ParseFloat(string(raw), 64); err == nil {
			return float
		}
	case "UUID":
		if id, err := uuid.ParseBytes(raw); err == nil {
			return id
		}
	case "TEXT", "VARCHAR", "CHAR", "BPCHAR", "NAME", "JSON", "JSONB":
		return string(raw)
	}

	return raw
}
