package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults covers the no-file, no-env case.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestLoad_YAMLOverridesDefaults verifies the file layer.
func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://pos.example.com/api
fallback_rate: 4100
cashier: Dara
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://pos.example.com/api", cfg.APIBaseURL)
	assert.InDelta(t, 4100, cfg.FallbackRate, 1e-9)
	assert.Equal(t, "Dara", cfg.Cashier)
	assert.Equal(t, "posterm.db", cfg.SnapshotPath) // untouched default
}

// TestLoad_EnvWinsOverYAML verifies precedence of the environment layer.
func TestLoad_EnvWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("role: cashier\nfallback_rate: 4100\n"), 0o644))

	t.Setenv("POSTERM_ROLE", "admin")
	t.Setenv("POSTERM_FALLBACK_RATE", "3900")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Role)
	assert.InDelta(t, 3900, cfg.FallbackRate, 1e-9)
}

// TestLoad_BadRate surfaces the parse failure instead of silently keeping
// the default.
func TestLoad_BadRate(t *testing.T) {
	t.Setenv("POSTERM_FALLBACK_RATE", "four thousand")

	_, err := Load("")
	assert.Error(t, err)
}
