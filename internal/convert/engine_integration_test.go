package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolshed/internal/config"
)

// Integration tests exercise a real DuckDB instance. They are opt-in
// because the engine builds a native library on first use.
func skipWithoutDuckDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TOOLSHED_DUCKDB_TEST") == "" {
		t.Skip("set TOOLSHED_DUCKDB_TEST=1 to run DuckDB integration tests")
	}
}

func TestEngineRoundTrip(t *testing.T) {
	skipWithoutDuckDB(t)

	engine, err := NewEngine(zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.parquet")

	// Let the engine produce the fixture itself.
	_, err = engine.db.ExecContext(ctx,
		"COPY (SELECT range AS id, 'row-' || range AS label FROM range(100)) TO '"+input+"' (FORMAT PARQUET)")
	require.NoError(t, err)

	info, err := engine.Inspect(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.Rows)
	require.Len(t, info.Columns, 2)
	assert.Equal(t, "id", info.Columns[0].Name)

	cfg := config.Default().Converter
	cfg.BatchSize = 16
	conv := NewConverter(engine, cfg, zap.NewNop())

	var calls int
	output := filepath.Join(dir, "sample.csv")
	res, err := conv.ConvertStreaming(ctx, input, output, func(written, total int64) {
		calls++
		assert.LessOrEqual(t, written, total)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Rows)
	assert.Greater(t, calls, 1)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,label\n")
	assert.Contains(t, string(data), "0,row-0\n")
}

func TestEngineClosed(t *testing.T) {
	skipWithoutDuckDB(t)

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	_, err = engine.Inspect(context.Background(), "x.parquet")
	assert.ErrorIs(t, err, ErrEngineClosed)
}
