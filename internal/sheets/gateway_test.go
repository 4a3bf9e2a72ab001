package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-logger/internal/config"
)

func TestNew_SelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    interface{}
	}{
		{"", &GoogleGateway{}},
		{config.BackendGoogle, &GoogleGateway{}},
		{config.BackendSQLite, &SQLiteGateway{}},
		{config.BackendMemory, &MemoryGateway{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &config.Config{SheetsBackend: tt.backend, SQLitePath: ":memory:"}
			g, err := New(cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, g)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(&config.Config{SheetsBackend: "excel"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excel")
}

func TestNew_GooglePassesConfig(t *testing.T) {
	g, err := New(&config.Config{
		SheetsBackend:      config.BackendGoogle,
		SheetName:          "Ops Log",
		SpreadsheetID:      "sheet-123",
		ServiceAccountJSON: "{}",
	})
	require.NoError(t, err)

	google := g.(*GoogleGateway)
	assert.Equal(t, GoogleConfig{SheetName: "Ops Log", SpreadsheetID: "sheet-123", CredentialsJSON: "{}"}, google.config)
}
