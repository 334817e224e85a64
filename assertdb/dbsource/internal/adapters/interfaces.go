package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the snapshot loader
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
}

// DBRows defines the interface for query result rows
type DBRows interface {
	Columns() ([]string, error)
	Next() bool
	Values() ([]any, error)
	Err() error
	Close() error
}
