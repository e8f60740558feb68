// Package config loads runtime settings for the vault CLI. It supplies the
// database location only; nothing here influences cryptographic behavior.
package config

// Config holds runtime settings for the vault CLI.
type Config struct {
	// DatabasePath is the SQLite file backing the vault.
	DatabasePath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "vault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
