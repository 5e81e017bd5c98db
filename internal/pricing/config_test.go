package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTables_EmptyPathUsesDefaults(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTables(), tables)
}

func TestLoadTables_FromYAML(t *testing.T) {
	path := writeTables(t, `
families:
  - name: uv
    match: uv
    default_per_meter: 80000
    tiers:
      - max: 20
        max_inclusive: true
        charge: flat
        rate: 30000
  - name: textile
    default_per_meter: 25000
    tiers:
      - max: 50
        charge: per_cm
        rate: 350
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)
	require.Len(t, tables.Families, 2)
	assert.Equal(t, "UV", tables.Families[0].Match)
	assert.Equal(t, BasisCentimeters, tables.Families[1].Basis)

	engine, err := NewEngine(tables)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), engine.Price(Quote{Meters: 0.1, Copies: 1, Machine: "UV"}))
	assert.Equal(t, int64(160000), engine.Price(Quote{Meters: 2, Copies: 1, Machine: "UV"}))
	assert.Equal(t, int64(14000), engine.Price(Quote{Meters: 0.4, Copies: 1, Machine: "Plotter"}))
	assert.Equal(t, int64(50000), engine.Price(Quote{Meters: 2, Copies: 1}))
}

func TestLoadTables_InvalidCharge(t *testing.T) {
	path := writeTables(t, `
families:
  - name: textile
    default_per_meter: 25000
    tiers:
      - max: 50
        charge: per_yard
        rate: 350
`)

	_, err := LoadTables(path)
	require.ErrorContains(t, err, "unknown charge")
}

func TestLoadTables_MissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
