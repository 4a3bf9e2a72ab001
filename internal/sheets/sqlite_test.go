package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-logger/internal/common/errors"
	"task-logger/internal/models"
)

func TestSQLiteGateway_RoundTrip(t *testing.T) {
	g := NewSQLiteGateway(filepath.Join(t.TempDir(), "rows.db"))
	defer g.Close()
	ctx := context.Background()

	row := []string{"2024-05-01T10:00:00.000000+00:00", "Patch firewall", "Kari", "Tactical", "2024-05-03", ""}
	require.NoError(t, g.AppendRow(ctx, row))

	rows, err := g.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.Header, rows[0])
	assert.Equal(t, row, rows[1])
}

func TestSQLiteGateway_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.db")
	ctx := context.Background()

	first := NewSQLiteGateway(path)
	require.NoError(t, first.AppendRow(ctx, []string{"ts", "one"}))
	require.NoError(t, first.Close())

	second := NewSQLiteGateway(path)
	defer second.Close()
	require.NoError(t, second.AppendRow(ctx, []string{"ts", "two"}))

	rows, err := second.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header is seeded only once")
	assert.Equal(t, "one", rows[1][1])
	assert.Equal(t, "two", rows[2][1])
}

func TestSQLiteGateway_NilRow(t *testing.T) {
	g := NewSQLiteGateway(filepath.Join(t.TempDir(), "rows.db"))
	defer g.Close()

	require.NoError(t, g.AppendRow(context.Background(), nil))

	rows, err := g.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[1])
}

func TestSQLiteGateway_OpenFailure(t *testing.T) {
	g := NewSQLiteGateway(filepath.Join(t.TempDir(), "missing", "dir", "rows.db"))

	_, err := g.ReadAllRows(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeRemoteStore))
	assert.NoError(t, g.Close())
}
