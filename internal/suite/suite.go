package suite

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

var (
	ErrInvalidSuite = errors.New("invalid suite")
	ErrInvalidCheck = errors.New("invalid check")
)

// Suite is a named list of table and request checks.
type Suite struct {
	Name     string         `yaml:"name"`
	Tables   []TableCheck   `yaml:"tables"`
	Requests []RequestCheck `yaml:"requests"`
}

// TableCheck loads a table snapshot and applies its checks.
type TableCheck struct {
	Name       string   `yaml:"name"`
	PrimaryKey []string `yaml:"primary_key"`
	Columns    []string `yaml:"columns"`
	Checks     `yaml:",inline"`
}

// RequestCheck loads the result of a SQL query and applies its checks.
type RequestCheck struct {
	SQL    string `yaml:"sql"`
	Args   []any  `yaml:"args"`
	Checks `yaml:",inline"`
}

// Checks are the assertions shared by tables and requests. Unset fields are not checked.
type Checks struct {
	Description  string        `yaml:"description"`
	NumberOfRows *int          `yaml:"number_of_rows"`
	ColumnNames  []string      `yaml:"column_names"`
	Rows         []RowCheck    `yaml:"rows"`
	ColumnChecks []ColumnCheck `yaml:"column_checks"`
}

// RowCheck asserts on the row at Index. Values are compared in column order,
// Fields by column name.
type RowCheck struct {
	Index  int            `yaml:"index"`
	Values []any          `yaml:"values"`
	Fields map[string]any `yaml:"fields"`
}

// ColumnCheck asserts on a column selected by Name, or by Index when Name is empty.
type ColumnCheck struct {
	Name     string `yaml:"name"`
	Index    int    `yaml:"index"`
	Values   []any  `yaml:"values"`
	Contains []any  `yaml:"contains"`
	Type     string `yaml:"type"`
	NoNulls  bool   `yaml:"no_nulls"`
}

// Load reads and parses the suite file at path.
func Load(path string) (Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return Suite{}, fmt.Errorf("failed to read suite: %w", err)
	}
	defer func() {
		_ = file.Close() // ignore error
	}()

	return Parse(file)
}

// Parse decodes a suite and validates it. Unknown fields are rejected.
func Parse(r io.Reader) (Suite, error) {
	var suite Suite

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&suite); err != nil {
		return Suite{}, errors.Join(ErrInvalidSuite, err)
	}

	if err := suite.validate(); err != nil {
		return Suite{}, errors.Join(ErrInvalidSuite, err)
	}

	return suite, nil
}

func (s *Suite) validate() error {
	var errs []error

	if len(s.Tables) == 0 && len(s.Requests) == 0 {
		errs = append(errs, errors.New("no tables and no requests"))
	}

	for i := range s.Tables {
		if s.Tables[i].Name == "" {
			errs = append(errs, fmt.Errorf("table %d: name is required", i))
		}

		errs = append(errs, s.Tables[i].validate(fmt.Sprintf("table %q", s.Tables[i].Name)))
	}

	for i := range s.Requests {
		if s.Requests[i].SQL == "" {
			errs = append(errs, fmt.Errorf("request %d: sql is required", i))
		}

		errs = append(errs, s.Requests[i].validate(fmt.Sprintf("request %d", i)))
	}

	return errors.Join(errs...)
}

func (c Checks) validate(subject string) error {
	var errs []error

	for i, check := range c.ColumnChecks {
		if check.Type == "" {
			continue
		}

		if _, err := data.ParseValueType(check.Type); err != nil {
			errs = append(errs, fmt.Errorf("%s column check %d: %w", subject, i, err))
		}
	}

	return errors.Join(errs...)
}
