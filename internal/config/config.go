package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ytget/ytgrab/internal/platform"
)

//go:embed config.example.toml
var exampleConf []byte

// Config file location
const (
	AppDirName     = "ytgrab"
	ConfigFileName = "config.toml"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Download DownloadConfig `toml:"download"`
	Network  NetworkConfig  `toml:"network"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
}

// DownloadConfig contains file output settings.
type DownloadConfig struct {
	Directory      string `toml:"directory"`
	AudioTranscode bool   `toml:"audio_transcode"`
	FFmpegPath     string `toml:"ffmpeg_path"`
	ChunkSize      int    `toml:"chunk_size"`
}

// NetworkConfig contains HTTP client settings.
type NetworkConfig struct {
	Timeout   time.Duration `toml:"timeout"`
	Retries   int           `toml:"retries"`
	UserAgent string        `toml:"user_agent"`
}

// CacheConfig bounds the video metadata cache.
type CacheConfig struct {
	MaxItems int64         `toml:"max_items"`
	TTL      time.Duration `toml:"ttl"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path. Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads path, or the default location when path is empty. A
// missing file yields DefaultConfig.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	config, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// DefaultConfigPath returns <user config dir>/ytgrab/config.toml
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, ConfigFileName), nil
}

// CreateConfigFile writes the embedded example config to path.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DownloadDirectory returns the configured directory, or the user's
// Downloads folder when none is set.
func (c *Config) DownloadDirectory() (string, error) {
	if c.Download.Directory != "" {
		return c.Download.Directory, nil
	}
	return platform.GetHomeDownloadsDir()
}

// ExtractorConfig maps the network and cache sections onto the extractor.
func (c *Config) ExtractorConfig() platform.ExtractorConfig {
	return platform.ExtractorConfig{
		Timeout:    c.Network.Timeout,
		Retries:    c.Network.Retries,
		UserAgent:  c.Network.UserAgent,
		CacheItems: c.Cache.MaxItems,
		CacheTTL:   c.Cache.TTL,
	}
}
