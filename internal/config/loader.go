package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"todo/internal/logging"
)

// ConfigFileEnv names the variable that points at an alternate config file.
const ConfigFileEnv = "TODO_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configPath string
}

// NewLoader creates a loader reading the config file named by TODO_CONFIG,
// or ~/.todo/config.yaml.
func NewLoader() *Loader {
	path := os.Getenv(ConfigFileEnv)
	if path == "" {
		path = DefaultConfigPath()
	}
	return &Loader{config: NewConfig(), configPath: path}
}

// WithConfigFile replaces the config file path. An empty path disables the
// file layer.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configPath = path
	return l
}

// DefaultConfigPath returns ~/.todo/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load applies the cascade: defaults, then the YAML config file, then
// environment variables. Flags are applied by LoadWithOverrides.
func (l *Loader) Load() (*Config, error) {
	if l.configPath != "" {
		if err := loadFile(l.configPath, l.config); err != nil {
			if !os.IsNotExist(err) {
				return nil, &ConfigError{Field: "config_file", Message: err.Error()}
			}
			logging.Debugf("no config file at %s, using defaults\n", l.configPath)
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}
	return l.config, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	logging.Debugf("loaded config file %s\n", path)
	return v.Unmarshal(cfg)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides.apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields were not set.
type ConfigOverrides struct {
	Backend      *string
	StorageDir   *string
	Filename     *string
	FileFormat   *string
	WriteTimeout *time.Duration

	TitleMinLength *int
	TitleMaxLength *int

	DateFormat *string

	ServerAddr *string
	GinMode    *string

	Timeout *time.Duration
	Verbose *bool
}

func (o *ConfigOverrides) apply(cfg *Config) {
	if o.Backend != nil {
		cfg.Storage.Backend = *o.Backend
	}
	if o.StorageDir != nil {
		cfg.Storage.Dir = *o.StorageDir
	}
	if o.Filename != nil {
		cfg.Storage.Filename = *o.Filename
	}
	if o.FileFormat != nil {
		cfg.Storage.FileFormat = *o.FileFormat
	}
	if o.WriteTimeout != nil {
		cfg.Storage.WriteTimeout = *o.WriteTimeout
	}
	if o.TitleMinLength != nil {
		cfg.Validation.TitleMinLength = *o.TitleMinLength
	}
	if o.TitleMaxLength != nil {
		cfg.Validation.TitleMaxLength = *o.TitleMaxLength
	}
	if o.DateFormat != nil {
		cfg.Display.DateFormat = *o.DateFormat
	}
	if o.ServerAddr != nil {
		cfg.Server.Addr = *o.ServerAddr
	}
	if o.GinMode != nil {
		cfg.Server.GinMode = *o.GinMode
	}
	if o.Timeout != nil {
		cfg.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		cfg.Application.Verbose = *o.Verbose
	}
}
