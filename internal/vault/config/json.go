package config

import (
	"encoding/json"
	"os"

	"passvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
}

// parseJson overlays cfg with values loaded from a JSON file resolved via the
// -c/-config flags. If no file is given, nothing happens. Read or unmarshal
// errors panic; the config stage runs before anything else and a broken
// config file should stop the program.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
}
