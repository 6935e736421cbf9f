package memconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a Config from a .json, .yaml, or .yml file. Fields absent
// from the file keep their Default() values.
func FromFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config file extension %q", ext)
	}
	return cfg, nil
}

// Override mutates a Config; used with FromPreset to adjust a named preset
// in place without redeclaring every field.
type Override func(*Config)

// WithAdapter sets the adapter name and configuration.
func WithAdapter(name string, cfg map[string]any) Override {
	return func(c *Config) {
		c.AdapterName = name
		c.AdapterConfig = cfg
	}
}

// WithStoragePath overrides the on-disk STM location.
func WithStoragePath(path string) Override {
	return func(c *Config) { c.StoragePath = path }
}

// WithVectorStore overrides the LTM vector store location.
func WithVectorStore(path, dsn string) Override {
	return func(c *Config) {
		c.VectorStorePath = path
		c.VectorStoreDSN = dsn
	}
}
