package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "acqos", cfg.Name)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, DriverModernc, cfg.Store.Driver)
	assert.Empty(t, cfg.Curriculum.Path)
	assert.Empty(t, cfg.Curriculum.UnlockCodes.Map())
	assert.False(t, cfg.Logging.DebugMode)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.Backend = BackendFile
	cfg.Store.Path = "client.json"
	cfg.Curriculum.UnlockCodes.Offre = "GO"
	cfg.Logging.DebugMode = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, loaded.Store.Backend)
	assert.Equal(t, "client.json", loaded.Store.Path)
	assert.Equal(t, "GO", loaded.Curriculum.UnlockCodes.Offre)
	assert.True(t, loaded.Logging.DebugMode)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: sqlite3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverCgo, cfg.Store.Driver)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(StateDir, "acqos.db"), cfg.Store.Path)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"file backend ignores driver", func(c *Config) { c.Store.Backend = BackendFile; c.Store.Driver = "" }, ""},
		{"cgo driver", func(c *Config) { c.Store.Driver = DriverCgo }, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "invalid store backend"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, "invalid sqlite driver"},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStorePath(t *testing.T) {
	ws := filepath.Join(string(filepath.Separator), "work")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(ws, StateDir, "acqos.db"), cfg.StorePath(ws))

	cfg.Store.Backend = BackendFile
	assert.Equal(t, filepath.Join(ws, StateDir, "record.json"), cfg.StorePath(ws))

	cfg.Store.Path = "data/mine.json"
	assert.Equal(t, filepath.Join(ws, "data", "mine.json"), cfg.StorePath(ws))

	abs := filepath.Join(string(filepath.Separator), "srv", "acq.db")
	cfg.Store.Path = abs
	assert.Equal(t, abs, cfg.StorePath(ws))
}

func TestCurriculumPath(t *testing.T) {
	ws := filepath.Join(string(filepath.Separator), "work")
	cfg := DefaultConfig()
	assert.Empty(t, cfg.CurriculumPath(ws))

	cfg.Curriculum.Path = "custom.yaml"
	assert.Equal(t, filepath.Join(ws, "custom.yaml"), cfg.CurriculumPath(ws))
}

func TestUnlockCodes_Map(t *testing.T) {
	codes := UnlockCodes{Offre: "GO", Contenu: "  ", Backend: "FOREVER"}
	assert.Equal(t, map[string]string{"offre": "GO", "backend": "FOREVER"}, codes.Map())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.False(t, lc.IsCategoryEnabled("store"))

	lc.DebugMode = true
	assert.True(t, lc.IsCategoryEnabled("store"))

	lc.Categories = map[string]bool{"store": false}
	assert.False(t, lc.IsCategoryEnabled("store"))
	assert.True(t, lc.IsCategoryEnabled("unlock"))
}
