package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StateDir holds config, the record and logs inside a workspace.
const StateDir = ".acqos"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// SQLite drivers. "sqlite" is modernc.org/sqlite, "sqlite3" is mattn/go-sqlite3.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

// Config holds all acqos configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Where the client record lives
	Store StoreConfig `yaml:"store"`

	// Curriculum source and unlock codes
	Curriculum CurriculumConfig `yaml:"curriculum"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"ACQOS_STORE_BACKEND"` // sqlite, file
	Path    string `yaml:"path" env:"ACQOS_STORE_PATH"`       // relative to the workspace unless absolute
	Driver  string `yaml:"driver" env:"ACQOS_SQLITE_DRIVER"`  // sqlite, sqlite3
}

// CurriculumConfig points at an alternative curriculum and overrides codes.
type CurriculumConfig struct {
	// Empty means the embedded curriculum.
	Path        string      `yaml:"path" env:"ACQOS_CURRICULUM"`
	UnlockCodes UnlockCodes `yaml:"unlock_codes"`
}

// UnlockCodes override the codes shipped with the curriculum, per phase.
type UnlockCodes struct {
	Identity string `yaml:"identity,omitempty" env:"ACQOS_CODE_IDENTITY"`
	Offre    string `yaml:"offre,omitempty" env:"ACQOS_CODE_OFFRE"`
	Contenu  string `yaml:"contenu,omitempty" env:"ACQOS_CODE_CONTENU"`
	Frontend string `yaml:"frontend,omitempty" env:"ACQOS_CODE_FRONTEND"`
	Backend  string `yaml:"backend,omitempty" env:"ACQOS_CODE_BACKEND"`
}

// Map returns the non-empty overrides keyed by phase id.
func (u UnlockCodes) Map() map[string]string {
	out := make(map[string]string)
	for id, code := range map[string]string{
		"identity": u.Identity,
		"offre":    u.Offre,
		"contenu":  u.Contenu,
		"frontend": u.Frontend,
		"backend":  u.Backend,
	} {
		if strings.TrimSpace(code) != "" {
			out[id] = code
		}
	}
	return out
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "acqos",
		Version: "2.0.0",

		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(StateDir, "acqos.db"),
			Driver:  DriverModernc,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file path inside workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, StateDir, "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// StorePath resolves the store path against workspace. A file backend
// configured with the sqlite default path gets a .json file instead.
func (c *Config) StorePath(workspace string) string {
	p := c.Store.Path
	if p == "" {
		p = filepath.Join(StateDir, "acqos.db")
	}
	if c.Store.Backend == BackendFile && p == filepath.Join(StateDir, "acqos.db") {
		p = filepath.Join(StateDir, "record.json")
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

// CurriculumPath resolves the curriculum path, or "" for the embedded one.
func (c *Config) CurriculumPath(workspace string) string {
	p := c.Curriculum.Path
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

// ValidBackends lists the supported store backends.
var ValidBackends = []string{BackendSQLite, BackendFile}

// ValidDrivers lists the supported SQLite drivers.
var ValidDrivers = []string{DriverModernc, DriverCgo}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidBackends, c.Store.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid: %v)", c.Store.Backend, ValidBackends)
	}
	if c.Store.Backend == BackendSQLite && !contains(ValidDrivers, c.Store.Driver) {
		return fmt.Errorf("invalid sqlite driver: %s (valid: %v)", c.Store.Driver, ValidDrivers)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
