package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

type Storage string

const (
	StorageMemory Storage = "memory"
	StorageSQLite Storage = "sqlite"
	StorageRedis  Storage = "redis"
)

type Config struct {
	Mode     Mode           `toml:"mode"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Local    LocalConfig    `toml:"local"`
	Remote   RemoteConfig   `toml:"remote"`
	Server   ServerConfig   `toml:"server"`
	Seed     SeedConfig     `toml:"seed"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// LocalConfig controls the in-process data source. Latencies are Go duration strings.
type LocalConfig struct {
	Storage       Storage `toml:"storage"`
	ListLatency   string  `toml:"list_latency"`
	CreateLatency string  `toml:"create_latency"`
	UpdateLatency string  `toml:"update_latency"`
	DeleteLatency string  `toml:"delete_latency"`
}

// RemoteConfig points the dashboard at a records API. Items holds whether the API also
// serves /items; employees and opportunities are always served.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
	Items   bool   `toml:"items"`
}

type ServerConfig struct {
	Bind            string  `toml:"bind"`
	APIEndpoint     string  `toml:"api_endpoint"`
	MCPEndpoint     string  `toml:"mcp_endpoint"`
	Storage         Storage `toml:"storage"`
	ShutdownTimeout string  `toml:"shutdown_timeout"`
}

type SeedConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string           `toml:"level"`
	DevFile DevFileLogConfig `toml:"dev_file"`
}

type DevFileLogConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func Default(dbPath string) Config {
	return Config{
		Mode: ModeLocal,
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "tablero",
		},
		Local: LocalConfig{
			Storage:       StorageMemory,
			ListLatency:   "0s",
			CreateLatency: "1s",
			UpdateLatency: "1s",
			DeleteLatency: "800ms",
		},
		Remote: RemoteConfig{
			BaseURL: "http://localhost:3000/api",
			Timeout: "10s",
		},
		Server: ServerConfig{
			Bind:            "127.0.0.1:3000",
			APIEndpoint:     "/api",
			MCPEndpoint:     "/mcp",
			Storage:         StorageSQLite,
			ShutdownTimeout: "5s",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileLogConfig{
				Enabled: true,
				Dir:     ".tablero/log",
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("invalid mode: %q", c.Mode)
	}
	if err := validateStorage("local.storage", c.Local.Storage); err != nil {
		return err
	}
	if err := validateStorage("server.storage", c.Server.Storage); err != nil {
		return err
	}
	if usesStorage(c, StorageSQLite) && strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if usesStorage(c, StorageRedis) && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0")
	}

	latencies := []struct {
		key   string
		value string
	}{
		{"local.list_latency", c.Local.ListLatency},
		{"local.create_latency", c.Local.CreateLatency},
		{"local.update_latency", c.Local.UpdateLatency},
		{"local.delete_latency", c.Local.DeleteLatency},
	}
	for _, l := range latencies {
		if _, err := parseDuration(l.key, l.value, false); err != nil {
			return err
		}
	}
	if _, err := parseDuration("remote.timeout", c.Remote.Timeout, true); err != nil {
		return err
	}
	if _, err := parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, true); err != nil {
		return err
	}

	base, err := url.Parse(strings.TrimSpace(c.Remote.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("invalid remote.base_url: %q", c.Remote.BaseURL)
	}

	if _, _, err := net.SplitHostPort(strings.TrimSpace(c.Server.Bind)); err != nil {
		return fmt.Errorf("invalid server.bind: %q", c.Server.Bind)
	}
	for key, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("invalid %s: %q", key, endpoint)
		}
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when logging.dev_file.enabled is true")
	}
	return nil
}

// Latencies returns the parsed local source latencies in list, create, update, delete order.
func (c LocalConfig) Latencies() (list, create, update, del time.Duration) {
	list, _ = parseDuration("", c.ListLatency, false)
	create, _ = parseDuration("", c.CreateLatency, false)
	update, _ = parseDuration("", c.UpdateLatency, false)
	del, _ = parseDuration("", c.DeleteLatency, false)
	return list, create, update, del
}

func (c RemoteConfig) RequestTimeout() time.Duration {
	d, _ := parseDuration("", c.Timeout, true)
	return d
}

func (c ServerConfig) ShutdownGrace() time.Duration {
	d, err := parseDuration("", c.ShutdownTimeout, true)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Write encodes cfg as TOML at path, creating the parent directory.
func Write(path string, cfg Config) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func validateStorage(key string, s Storage) error {
	switch s {
	case StorageMemory, StorageSQLite, StorageRedis:
		return nil
	default:
		return fmt.Errorf("invalid %s: %q", key, s)
	}
}

func usesStorage(c Config, s Storage) bool {
	return c.Server.Storage == s || (c.Mode == ModeLocal && c.Local.Storage == s)
}

// parseDuration treats an empty value as zero. Positive requires a value > 0.
func parseDuration(key, raw string, positive bool) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if positive {
			return 0, fmt.Errorf("%s is required", key)
		}
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	if d < 0 || (positive && d == 0) {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
