package fixtures

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// PostgresDSNEnv names the environment variable holding the DSN of the Postgres integration test database.
// Postgres tests are skipped when it is unset.
const PostgresDSNEnv = "ASSERTDB_POSTGRES_DSN"

const postgresBooksSchemaSQL = `CREATE TABLE %s (
	id               BIGINT      PRIMARY KEY,
	title            TEXT        NOT NULL,
	authors          TEXT        NOT NULL,
	publication_year BIGINT      NOT NULL,
	lent             BOOLEAN     NOT NULL,
	added_at         TIMESTAMPTZ NOT NULL
)`

// OpenPostgresBooksPool connects to the Postgres integration test database and creates a uniquely named
// books table holding BookRows. It returns the pool and the table name; the table is dropped when the test ends.
func OpenPostgresBooksPool(t testing.TB) (*pgxpool.Pool, string) {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", PostgresDSNEnv)
	}

	const defaultMaxConnections = int32(4)
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err, "error in arranging test data")

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	ctx := context.Background()

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	require.NoError(t, err, "error in arranging test data")

	tableName := "books_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+tableName) // ignore error
		pool.Close()
	})

	_, err = pool.Exec(ctx, fmt.Sprintf(postgresBooksSchemaSQL, tableName))
	require.NoError(t, err, "error in arranging test data")

	insert := fmt.Sprintf(
		"INSERT INTO %s (id, title, authors, publication_year, lent, added_at) VALUES ($1, $2, $3, $4, $5, $6)",
		tableName,
	)

	for _, row := range BookRows() {
		_, err = pool.Exec(ctx, insert, row...)
		require.NoError(t, err, "error in arranging test data")
	}

	return pool, tableName
}
