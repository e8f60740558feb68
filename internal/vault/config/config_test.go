package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "vault.db", c.DatabasePath)
}

func TestLoadConfig_FlagOverridesDefault(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-d", "/tmp/other.db"}
	cfg := LoadConfig()
	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
}

func TestLoadConfig_JsonOverridesDefault(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path": "/tmp/json.db"}`), 0o600))

	os.Args = []string{"testbin", "-c", path}
	cfg := LoadConfig()
	assert.Equal(t, "/tmp/json.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagBeatsJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path": "/tmp/json.db"}`), 0o600))

	os.Args = []string{"testbin", "-c", path, "-d", "/tmp/flag.db"}
	cfg := LoadConfig()
	assert.Equal(t, "/tmp/flag.db", cfg.DatabasePath)
}
