// Package config provides the environment configuration of the assertdb command and the
// factories opening a dbsource.Source with the configured driver (pgx.Pool, sql.DB, sqlx.DB or SQLite).
package config
