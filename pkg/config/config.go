// Package config loads and persists localrag settings. Values resolve through
// viper with the precedence flags > environment > config.toml > defaults; the
// Configer type additionally supports reading and writing the config.toml
// file itself for the `localrag config` subcommands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

const (
	configFile = "config.toml"

	// dotDirName is the per-user configuration directory under $HOME.
	dotDirName = ".localrag"
)

// resolveConfigDir returns the directory holding config.toml. A non-empty
// override wins; otherwise ~/.localrag is used when it exists. An empty
// return means no config directory is available and defaults apply.
func resolveConfigDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory (e.g. minimal containers): run on defaults.
		return "", nil
	}

	dir := filepath.Join(home, dotDirName)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return dir, nil
}

// Configer reads and writes the persistent config.toml file.
type Configer struct {
	targetPath string
}

// NewConfiger resolves the config file location. If override is empty and no
// ~/.localrag directory exists, the directory is created so values can be
// persisted.
func NewConfiger(override string) (*Configer, error) {
	dir := override
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, dotDirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	return &Configer{targetPath: filepath.Join(dir, configFile)}, nil
}

// Target returns the resolved config.toml path.
func (c *Configer) Target() string {
	return c.targetPath
}

// Load reads config.toml. If the file does not exist, it returns
// NewDefaultConfig() so callers always receive a fully-populated Config.
func (c *Configer) Load() (*Config, error) {
	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Save persists the configuration to config.toml.
func (c *Configer) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetValue loads the config, sets the given key, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetValue(key, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.Load()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.Save(cfg)
}

// GetValue loads the config and returns the string form of the given key.
func (c *Configer) GetValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.Load()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// ValidKeys returns the sorted list of all supported configuration key names.
func ValidKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsValidKey returns true if key is a supported configuration key.
func IsValidKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// ParseTOML parses raw TOML bytes into a Config.
func ParseTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = defaults.Ollama.EmbedModel
	}
	if cfg.Ollama.GenModel == "" {
		cfg.Ollama.GenModel = defaults.Ollama.GenModel
	}

	if cfg.Qdrant.URL == "" {
		cfg.Qdrant.URL = defaults.Qdrant.URL
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = defaults.Qdrant.Collection
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = defaults.VectorStore.Provider
	}

	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = defaults.Embedding.Dimensions
	}

	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = defaults.Chunking.Size
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = defaults.Chunking.Overlap
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = defaults.Retrieval.TopK
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
}
