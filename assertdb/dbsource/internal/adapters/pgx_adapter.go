package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool *pgxpool.Pool
}

// NewPGXAdapter creates a new PGX adapter.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// Query executes a query using the pgx pool and returns wrapped rows.
func (p *PGXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Columns returns the result column names.
func (p *pgxRows) Columns() ([]string, error) {
	fields := p.rows.FieldDescriptions()
	names := make([]string, len(fields))

	for i, field := range fields {
		names[i] = field.Name
	}

	return names, nil
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Values returns the decoded values of the current row.
func (p *pgxRows) Values() ([]any, error) {
	values, err := p.rows.Values()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		values[i] = fromPGX(value)
	}

	return values, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

func fromPGX(value any) any {
	numeric, ok := value.(pgtype.Numeric)
	if !ok {
		return value
	}

	float, err := numeric.Float64Value()
	if err != nil || !float.Valid {
		return nil
	}

	return float.Float64
}
