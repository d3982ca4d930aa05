package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:        "/home/user/.local/share/snipvault",
		LogDir:         "/home/user/.local/share/snipvault/log",
		ChunkSize:      2000,
		MaxContentSize: 1 << 20,
		Encryption: EncryptionConfig{
			KeyPath: "/home/user/.local/share/snipvault/keys/snipvault.key",
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/snipvault/db"},
		Cache:    CacheConfig{Type: "redis", RedisAddr: "localhost:6379", RedisDB: 2},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.ChunkSize != 2000 {
		t.Errorf("ChunkSize = %d, want 2000", got.ChunkSize)
	}
	if got.MaxContentSize != 1<<20 {
		t.Errorf("MaxContentSize = %d, want %d", got.MaxContentSize, 1<<20)
	}
	if got.Encryption.KeyPath != original.Encryption.KeyPath {
		t.Errorf("Encryption.KeyPath = %q, want %q", got.Encryption.KeyPath, original.Encryption.KeyPath)
	}
	if got.Database.Type != "sqlite" || got.Database.DataDir != original.Database.DataDir {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Cache.Type != "redis" || got.Cache.RedisAddr != "localhost:6379" || got.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v, want %+v", got.Cache, original.Cache)
	}
}

func TestManager_Read_AppliesDefaults(t *testing.T) {
	cfg, err := (&Manager{}).Read(strings.NewReader(`base_dir = "/tmp/sv"`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want default %d", cfg.ChunkSize, DefaultChunkSize)
	}
	if cfg.MaxContentSize != DefaultMaxContentSize {
		t.Errorf("MaxContentSize = %d, want default %d", cfg.MaxContentSize, DefaultMaxContentSize)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -1 }, true},
		{"zero max content size", func(c *Config) { c.MaxContentSize = 0 }, true},
		{"chunk size above max content size", func(c *Config) {
			c.ChunkSize = 200
			c.MaxContentSize = 100
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig("/tmp/sv")
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/data/snipvault")

	if cfg.LogDir != "/data/snipvault/log" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Encryption.KeyPath != "/data/snipvault/keys/snipvault.key" {
		t.Errorf("Encryption.KeyPath = %q", cfg.Encryption.KeyPath)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %q, want memory", cfg.Cache.Type)
	}
}
