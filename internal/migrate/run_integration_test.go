package migrate_test

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/aviaapp/internal/migrate"
	"github.com/Domenick1991/aviaapp/internal/test/dbcontainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SeedsCabinClassesOnce(t *testing.T) {
	pool := dbcontainer.New(t, 2*time.Minute)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `UPDATE cabin_classes SET price_percent = 30 WHERE id = 2`)
	require.NoError(t, err)

	// a second run keeps existing rows
	gdb, err := migrate.Open(pool.Config().ConnString())
	require.NoError(t, err)
	require.NoError(t, migrate.Run(ctx, gdb))

	var count, percent int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM cabin_classes`).Scan(&count))
	require.NoError(t, pool.QueryRow(ctx, `SELECT price_percent FROM cabin_classes WHERE id = 2`).Scan(&percent))
	assert.Equal(t, 4, count)
	assert.Equal(t, 30, percent)
}
