// Package dbsource loads assertdb snapshots from a database.
//
// A Source is created from a pgx pool, a sql.DB or a sqlx.DB and returns plain data values:
//
//	source, err := dbsource.NewSourceFromPGXPool(pool, dbsource.WithLogger(logger))
//	books, err := source.Table(ctx, dbsource.TableSpec{Name: "books", PrimaryKey: []string{"id"}})
//	lent, err := source.Request(ctx, "SELECT id, title FROM books WHERE lent = $1", true)
//
// Changes are recorded between two points in time:
//
//	recorder, err := source.StartChanges(ctx, dbsource.TableSpec{Name: "books", PrimaryKey: []string{"id"}})
//	// ... exercise the code under test ...
//	changes, err := recorder.End(ctx)
//
// Table snapshot queries are built with goqu for the postgres (default) and sqlite3 dialects.
// Column names are upper-cased in every snapshot.
package dbsource
