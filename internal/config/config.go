package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults for the content pipeline. ChunkSize is the fixed maximum chunk
// size fed to the chunker; MaxContentSize bounds a single snippet's content.
const (
	DefaultChunkSize      = 64 * 1024
	DefaultMaxContentSize = 32 * 1024 * 1024
)

// Config represents the main configuration for snipvault.
type Config struct {
	BaseDir        string           `toml:"base_dir"`
	LogDir         string           `toml:"log_dir"`
	ChunkSize      int              `toml:"chunk_size"`
	MaxContentSize int64            `toml:"max_content_size"`
	Encryption     EncryptionConfig `toml:"encryption"`
	Database       DatabaseConfig   `toml:"database"`
	Cache          CacheConfig      `toml:"cache"`
}

// EncryptionConfig holds the path to the passphrase-wrapped data key.
type EncryptionConfig struct {
	KeyPath string `toml:"key_path"`
}

// DatabaseConfig represents configuration for the snippet/chunk store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" (default) or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CacheConfig represents configuration for the recency index backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CacheConfig struct {
	Type          string `toml:"type"`                     // "redis" or "memory" (default)
	RedisAddr     string `toml:"redis_addr,omitempty"`     // only used for type=redis
	RedisPassword string `toml:"redis_password,omitempty"` // only used for type=redis
	RedisDB       int    `toml:"redis_db,omitempty"`       // only used for type=redis
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:        baseDir,
		LogDir:         filepath.Join(baseDir, "log"),
		ChunkSize:      DefaultChunkSize,
		MaxContentSize: DefaultMaxContentSize,
		Encryption: EncryptionConfig{
			KeyPath: filepath.Join(baseDir, "keys", "snipvault.key"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Cache: CacheConfig{
			Type: "memory",
		},
	}
}

// Validate checks the pipeline settings for values the chunker cannot work
// with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.MaxContentSize <= 0 {
		return fmt.Errorf("max_content_size must be positive, got %d", c.MaxContentSize)
	}
	if int64(c.ChunkSize) > c.MaxContentSize {
		return fmt.Errorf("chunk_size %d exceeds max_content_size %d", c.ChunkSize, c.MaxContentSize)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MaxContentSize == 0 {
		cfg.MaxContentSize = DefaultMaxContentSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Init initializes a new config file at the specified path with the provided
// Config. Fails if a config file already exists there.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
