package sheets

import (
	"context"
	"sync"

	"task-logger/internal/models"
)

// MemoryGateway keeps rows in process memory. It starts with the header
// row a real sheet carries.
type MemoryGateway struct {
	mu   sync.RWMutex
	rows [][]string
}

// NewMemoryGateway creates a gateway holding the header followed by rows.
func NewMemoryGateway(rows ...[]string) *MemoryGateway {
	g := &MemoryGateway{rows: [][]string{cloneRow(models.Header)}}
	for _, row := range rows {
		g.rows = append(g.rows, cloneRow(row))
	}
	return g
}

func (g *MemoryGateway) ReadAllRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([][]string, len(g.rows))
	for i, row := range g.rows {
		out[i] = cloneRow(row)
	}
	return out, nil
}

func (g *MemoryGateway) AppendRow(ctx context.Context, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = append(g.rows, cloneRow(values))
	return nil
}

// Len returns the number of stored rows, header included.
func (g *MemoryGateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}
