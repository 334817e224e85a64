package data

import (
	"fmt"
	"slices"
	"strings"
)

// ChangeType is the kind of a change between the start and the end point.
type ChangeType int

const (
	Creation ChangeType = iota
	Modification
	Deletion
)

func (t ChangeType) String() string {
	switch t {
	case Creation:
		return "CREATION"
	case Modification:
		return "MODIFICATION"
	case Deletion:
		return "DELETION"
	default:
		return "UNKNOWN"
	}
}

// ChangeColumn is one column of a change with its values at the start and the end point.
type ChangeColumn struct {
	index   int
	name    string
	atStart Value
	atEnd   Value
}

// NewChangeColumn is a factory method for a ChangeColumn that is not positioned in a change.
func NewChangeColumn(name string, atStart, atEnd Value) ChangeColumn {
	return ChangeColumn{index: -1, name: name, atStart: atStart, atEnd: atEnd}
}

func (c ChangeColumn) Index() int {
	return c.index
}

func (c ChangeColumn) Name() string {
	return c.name
}

func (c ChangeColumn) ValueAtStartPoint() Value {
	return c.atStart
}

func (c ChangeColumn) ValueAtEndPoint() Value {
	return c.atEnd
}

func (c ChangeColumn) IsModified() bool {
	return !c.atStart.Equal(c.atEnd)
}

// Change is the difference of one row between the start and the end point.
type Change struct {
	index     int
	tableName string
	typ       ChangeType
	atStart   Row
	atEnd     Row
}

func (c Change) Index() int {
	return c.index
}

func (c Change) TableName() string {
	return c.tableName
}

func (c Change) Type() ChangeType {
	return c.typ
}

func (c Change) RowAtStartPoint() Row {
	return c.atStart
}

func (c Change) RowAtEndPoint() Row {
	return c.atEnd
}

func (c Change) ColumnNames() []string {
	return c.atEnd.ColumnNames()
}

func (c Change) PrimaryKeyNames() []string {
	return c.atEnd.PrimaryKeyNames()
}

// PrimaryKey returns the primary key values of the row that exists.
func (c Change) PrimaryKey() []Value {
	if c.atEnd.Exists() {
		return c.atEnd.PrimaryKey()
	}

	return c.atStart.PrimaryKey()
}

func (c Change) NumberOfColumns() int {
	return c.atEnd.NumberOfColumns()
}

func (c Change) ColumnAt(index int) (ChangeColumn, error) {
	atStart, err := c.atStart.ValueAt(index)
	if err != nil {
		return ChangeColumn{}, err
	}

	atEnd, err := c.atEnd.ValueAt(index)
	if err != nil {
		return ChangeColumn{}, err
	}

	return ChangeColumn{index: index, name: c.atEnd.columnNames[index], atStart: atStart, atEnd: atEnd}, nil
}

func (c Change) ColumnByName(name string) (ChangeColumn, error) {
	index := indexOfColumn(c.atEnd.columnNames, name)
	if index < 0 {
		return ChangeColumn{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	return c.ColumnAt(index)
}

// ModifiedColumns returns the indexes of the columns whose value differs between the two points.
func (c Change) ModifiedColumns() []int {
	var modified []int

	for i := range c.atEnd.columnNames {
		column, err := c.ColumnAt(i)
		if err == nil && column.IsModified() {
			modified = append(modified, i)
		}
	}

	return modified
}

// HasPrimaryKey reports whether the change concerns the row with the given primary key values.
func (c Change) HasPrimaryKey(values ...any) bool {
	pk := c.PrimaryKey()
	if len(pk) != len(values) {
		return false
	}

	for i, value := range values {
		if !pk[i].Equal(NewValue(pk[i].ColumnName(), value)) {
			return false
		}
	}

	return true
}

// Changes are the differences of a set of tables between a start and an end point.
type Changes struct {
	tableNames []string
	changes    []Change
}

// NewChanges compares the start and the end snapshots of the same tables.
//
// Rows are matched by primary key. Changes are ordered by table (in the order of end), then
// creations, modifications and deletions, each in row order.
// Returns an error if the two sides do not hold the same tables with the same columns,
// a table has no primary key, or a primary key repeats.
func NewChanges(start, end []Table) (Changes, error) {
	if len(start) != len(end) {
		return Changes{}, fmt.Errorf("%w: %d tables at start point, %d at end point", ErrTableMismatch, len(start), len(end))
	}

	changes := Changes{tableNames: make([]string, 0, len(end))}

	for _, atEnd := range end {
		i := slices.IndexFunc(start, func(t Table) bool { return strings.EqualFold(t.name, atEnd.name) })
		if i < 0 {
			return Changes{}, fmt.Errorf("%w: no start point for table %s", ErrTableMismatch, atEnd.name)
		}

		tableChanges, err := diffTable(start[i], atEnd)
		if err != nil {
			return Changes{}, err
		}

		changes.tableNames = append(changes.tableNames, atEnd.name)
		changes.changes = append(changes.changes, tableChanges...)
	}

	for i := range changes.changes {
		changes.changes[i].index = i
	}

	return changes, nil
}

func diffTable(atStart, atEnd Table) ([]Change, error) {
	if !slices.EqualFunc(atStart.columnNames, atEnd.columnNames, strings.EqualFold) {
		return nil, fmt.Errorf("%w: columns of table %s differ", ErrTableMismatch, atEnd.name)
	}

	if len(atEnd.pkNames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, atEnd.name)
	}

	startRows, err := indexRowsByPrimaryKey(atStart)
	if err != nil {
		return nil, err
	}

	endRows, err := indexRowsByPrimaryKey(atEnd)
	if err != nil {
		return nil, err
	}

	columns, pk := atEnd.columnNames, atEnd.pkNames

	var creations, modifications, deletions []Change

	for _, row := range atEnd.rows {
		endRow := withPoint(row, EndPoint)

		startRow, found := startRows[row.primaryKeyKey()]
		if !found {
			creations = append(creations, Change{
				tableName: atEnd.name,
				typ:       Creation,
				atStart:   absentRow(StartPoint, columns, pk),
				atEnd:     endRow,
			})

			continue
		}

		if !sameValues(startRow, row) {
			modifications = append(modifications, Change{
				tableName: atEnd.name,
				typ:       Modification,
				atStart:   withPoint(startRow, StartPoint),
				atEnd:     endRow,
			})
		}
	}

	for _, row := range atStart.rows {
		if _, found := endRows[row.primaryKeyKey()]; found {
			continue
		}

		deletions = append(deletions, Change{
			tableName: atEnd.name,
			typ:       Deletion,
			atStart:   withPoint(row, StartPoint),
			atEnd:     absentRow(EndPoint, columns, pk),
		})
	}

	return slices.Concat(creations, modifications, deletions), nil
}

func indexRowsByPrimaryKey(table Table) (map[string]Row, error) {
	rows := make(map[string]Row, len(table.rows))

	for _, row := range table.rows {
		key := row.primaryKeyKey()
		if _, exists := rows[key]; exists {
			return nil, fmt.Errorf("%w: table %s, primary key %s", ErrDuplicatePrimaryKey, table.name, key)
		}

		rows[key] = row
	}

	return rows, nil
}

func withPoint(row Row, point Point) Row {
	row.point = point

	values := make([]Value, len(row.values))
	for i, value := range row.values {
		values[i] = value.positioned(row.index, i, point)
	}

	row.values = values

	return row
}

func sameValues(left, right Row) bool {
	return slices.EqualFunc(left.values, right.values, Value.Equal)
}

func (c Changes) TableNames() []string {
	return slices.Clone(c.tableNames)
}

func (c Changes) All() []Change {
	return slices.Clone(c.changes)
}

func (c Changes) NumberOfChanges() int {
	return len(c.changes)
}

func (c Changes) ChangeAt(index int) (Change, error) {
	if index < 0 || index >= len(c.changes) {
		return Change{}, fmt.Errorf("%w: change index %d, %d changes", ErrIndexOutOfBounds, index, len(c.changes))
	}

	return c.changes[index], nil
}

// ChangeWithPrimaryKey returns the first change of the row with the given primary key values.
func (c Changes) ChangeWithPrimaryKey(values ...any) (Change, error) {
	for _, change := range c.changes {
		if change.HasPrimaryKey(values...) {
			return change, nil
		}
	}

	return Change{}, fmt.Errorf("%w: primary key %v", ErrChangeNotFound, values)
}

// OfType returns the changes of the given type, keeping their order but re-indexing them.
func (c Changes) OfType(typ ChangeType) Changes {
	return c.filter(func(change Change) bool { return change.typ == typ })
}

// OnTable returns the changes on the named table, keeping their order but re-indexing them.
func (c Changes) OnTable(name string) Changes {
	filtered := c.filter(func(change Change) bool { return strings.EqualFold(change.tableName, name) })
	filtered.tableNames = slices.DeleteFunc(filtered.tableNames, func(candidate string) bool {
		return !strings.EqualFold(candidate, name)
	})

	return filtered
}

func (c Changes) filter(keep func(Change) bool) Changes {
	filtered := Changes{tableNames: slices.Clone(c.tableNames)}

	for _, change := range c.changes {
		if keep(change) {
			change.index = len(filtered.changes)
			filtered.changes = append(filtered.changes, change)
		}
	}

	return filtered
}
