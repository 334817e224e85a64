// Package adapters provide database adapter implementations for loading snapshots.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters return rows as plain Go values through
// a common DBAdapter interface, so the snapshot loader works with any supported connection type.
//
// Driver specific representations (pgx numerics, textual UUIDs and numerics from database/sql drivers)
// are converted here, before the values reach the domain model.
package adapters
