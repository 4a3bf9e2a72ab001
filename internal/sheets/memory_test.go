package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-logger/internal/models"
)

func TestMemoryGateway_SeedsHeader(t *testing.T) {
	g := NewMemoryGateway()

	rows, err := g.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Header, rows[0])
}

func TestMemoryGateway_AppendKeepsOrder(t *testing.T) {
	g := NewMemoryGateway([]string{"a"})
	ctx := context.Background()

	require.NoError(t, g.AppendRow(ctx, []string{"b"}))
	require.NoError(t, g.AppendRow(ctx, []string{"c"}))

	rows, err := g.ReadAllRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{models.Header, {"a"}, {"b"}, {"c"}}, rows)
	assert.Equal(t, 4, g.Len())
}

func TestMemoryGateway_ReturnsCopies(t *testing.T) {
	g := NewMemoryGateway([]string{"original"})

	rows, err := g.ReadAllRows(context.Background())
	require.NoError(t, err)
	rows[1][0] = "mutated"

	rows, err = g.ReadAllRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "original", rows[1][0])
}

func TestMemoryGateway_CancelledContext(t *testing.T) {
	g := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ReadAllRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, g.AppendRow(ctx, []string{"x"}), context.Canceled)
	assert.Equal(t, 1, g.Len())
}
