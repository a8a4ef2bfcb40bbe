// Package dbcontainer starts a throwaway postgres:16 container for
// integration tests and returns a migrated pgx pool connected to it.
// Tests using it only run when AVIAAPP_INTEGRATION=1 is set, since a
// docker (or podman, via DOCKER_HOST) daemon is required.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/Domenick1991/aviaapp/internal/migrate"
	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const EnvFlag = "AVIAAPP_INTEGRATION"

// New skips the test unless EnvFlag is set. Cleanup is registered on t.
func New(t *testing.T, timeout time.Duration) *pgxpool.Pool {
	t.Helper()
	if os.Getenv(EnvFlag) != "1" {
		t.Skipf("set %s=1 to run integration tests", EnvFlag)
	}

	ctx := context.Background()
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pg, err := sqltestutil.StartPostgresContainer(startCtx, "16")
	require.NoError(t, err, "failed to set up a test database")
	t.Cleanup(func() {
		if err := pg.Shutdown(ctx); err != nil {
			t.Logf("failed to shutdown test database: %v", err)
		}
	})

	dsn := pg.ConnectionString()
	for {
		gdb, err := migrate.Open(dsn)
		if err == nil {
			require.NoError(t, migrate.Run(startCtx, gdb), "cannot migrate test database")
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
			break
		}
		var pgErr *pgconn.PgError
		var netErr net.Error
		starting := errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CannotConnectNow
		if startCtx.Err() == nil && (starting || errors.As(err, &netErr)) {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		require.NoError(t, err, "cannot connect to test database")
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}
