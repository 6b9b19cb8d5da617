package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// BackendConfig locates the CampusCalm backend.
type BackendConfig struct {
	// BaseURL is the origin all API paths are resolved against.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every remote call; a timeout counts as a
	// transport failure.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// StorageConfig selects the session-scoped key/value backend.
type StorageConfig struct {
	Backend       string `mapstructure:"backend" yaml:"backend"`
	SQLitePath    string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	SessionTTLSec int    `mapstructure:"session_ttl_sec" yaml:"session_ttl_sec"`
}

// ChatConfig holds chat widget settings.
type ChatConfig struct {
	FallbackDelayMS int `mapstructure:"fallback_delay_ms" yaml:"fallback_delay_ms"`
}

// BellConfig holds notification bell settings.
type BellConfig struct {
	// PollIntervalSec refreshes the bell in the background; 0 disables
	// interval polling (the bell still refreshes on open).
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Locale  string        `mapstructure:"locale" yaml:"locale"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Chat    ChatConfig    `mapstructure:"chat" yaml:"chat"`
	Bell    BellConfig    `mapstructure:"bell" yaml:"bell"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Timeout returns the remote call bound as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}

// FallbackDelay returns the chat fallback delay as a duration.
func (c *AppConfig) FallbackDelay() time.Duration {
	return time.Duration(c.Chat.FallbackDelayMS) * time.Millisecond
}

// PollInterval returns the bell polling interval as a duration.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.Bell.PollIntervalSec) * time.Second
}

// Validate checks the values that would otherwise fail later and far
// from their source.
func (c *AppConfig) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url cannot be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") &&
		!strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url must start with http:// or https://")
	}
	if c.Backend.TimeoutSec <= 0 {
		return fmt.Errorf("backend.timeout_sec must be positive")
	}
	switch c.Storage.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("storage.backend must be memory, sqlite or redis, got %q", c.Storage.Backend)
	}
	if c.Chat.FallbackDelayMS < 0 {
		return fmt.Errorf("chat.fallback_delay_ms cannot be negative")
	}
	if c.Bell.PollIntervalSec < 0 {
		return fmt.Errorf("bell.poll_interval_sec cannot be negative")
	}
	return nil
}

// ConfigDir returns ~/.config/campuscalm, or the working directory when
// the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "campuscalm")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/campuscalm/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 10,
		},
		Locale: "pt-BR",
		Storage: StorageConfig{
			Backend:       "sqlite",
			SQLitePath:    filepath.Join(ConfigDir(), "session.db"),
			RedisAddr:     "localhost:6379",
			SessionTTLSec: 86400,
		},
		Chat: ChatConfig{FallbackDelayMS: 300},
		Bell: BellConfig{PollIntervalSec: 60},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "campuscalm.log"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.timeout_sec", d.Backend.TimeoutSec)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.session_ttl_sec", d.Storage.SessionTTLSec)
	v.SetDefault("chat.fallback_delay_ms", d.Chat.FallbackDelayMS)
	v.SetDefault("bell.poll_interval_sec", d.Bell.PollIntervalSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// CAMPUSCALM_* environment variables override file values
// (e.g. CAMPUSCALM_BACKEND_BASE_URL).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("campuscalm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, missingFile := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !missingFile && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Storage.SQLitePath = expandHome(cfg.Storage.SQLitePath)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", map[string]any{
		"base_url":    cfg.Backend.BaseURL,
		"timeout_sec": cfg.Backend.TimeoutSec,
	})
	v.Set("locale", cfg.Locale)
	v.Set("storage", map[string]any{
		"backend":         cfg.Storage.Backend,
		"sqlite_path":     cfg.Storage.SQLitePath,
		"redis_addr":      cfg.Storage.RedisAddr,
		"session_ttl_sec": cfg.Storage.SessionTTLSec,
	})
	v.Set("chat", map[string]any{"fallback_delay_ms": cfg.Chat.FallbackDelayMS})
	v.Set("bell", map[string]any{"poll_interval_sec": cfg.Bell.PollIntervalSec})
	v.Set("log", map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
