package dbsource

import "errors"

var ErrNilDatabaseConnection = errors.New("database connection is nil")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")
var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrBuildingQueryFailed = errors.New("building the select query failed")
var ErrQueryingFailed = errors.New("querying the database failed")
var ErrScanningDBRowFailed = errors.New("scanning a database row failed")
var ErrBuildingSnapshotFailed = errors.New("building the snapshot failed")
var ErrNoTablesToRecord = errors.New("no tables to record changes on")
var ErrRecorderAlreadyEnded = errors.New("change recorder already ended")
