package graft

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TargetConfig locates the target graph store.
type TargetConfig struct {
	// Dialect names the target dialect. Only "dgraph" is supported.
	Dialect string `yaml:"dialect"`
	// Addr is the store's gRPC address.
	Addr string `yaml:"addr"`
}

// Config is the run configuration. All fields have working defaults; a
// config file only needs to name what it overrides.
type Config struct {
	Target TargetConfig `yaml:"target"`
	// Types extends or overrides the scalar type map: source type name to
	// target value type.
	Types map[string]string `yaml:"types,omitempty"`
	// Journal is the path of the sqlite audit journal. Empty keeps audit
	// records in memory only.
	Journal string `yaml:"journal,omitempty"`
	// Workers bounds concurrent record translation during ingest.
	Workers int `yaml:"workers,omitempty"`
}

// DefaultConfig returns the configuration used when no file is provided:
// a local store on the default port and in-memory auditing.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			Dialect: "dgraph",
			Addr:    "127.0.0.1:9080",
		},
		Workers: 4,
	}
}

// ParseConfig decodes a YAML document over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("graft: parsing config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graft: reading config: %w", err)
	}
	return ParseConfig(data)
}
