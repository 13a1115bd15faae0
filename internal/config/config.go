package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds all configuration options for the todo application
type Config struct {
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Display     DisplayConfig     `yaml:"display" mapstructure:"display"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Application ApplicationConfig `yaml:"application" mapstructure:"application"`
}

// StorageConfig selects and locates the persistence backend
type StorageConfig struct {
	Backend        string        `yaml:"backend" mapstructure:"backend" env:"TODO_STORAGE_BACKEND"`
	Dir            string        `yaml:"dir" mapstructure:"dir" env:"TODO_STORAGE_DIR"`
	Filename       string        `yaml:"filename" mapstructure:"filename" env:"TODO_STORAGE_FILENAME"`
	FileFormat     string        `yaml:"file_format" mapstructure:"file_format" env:"TODO_STORAGE_FORMAT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" env:"TODO_STORAGE_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" mapstructure:"dir_permissions" env:"TODO_STORAGE_DIR_PERMISSIONS"`
}

// ValidationConfig holds task field limits
type ValidationConfig struct {
	TitleMinLength  int `yaml:"title_min_length" mapstructure:"title_min_length" env:"TODO_VALIDATION_TITLE_MIN"`
	TitleMaxLength  int `yaml:"title_max_length" mapstructure:"title_max_length" env:"TODO_VALIDATION_TITLE_MAX"`
	DetailMaxLength int `yaml:"detail_max_length" mapstructure:"detail_max_length" env:"TODO_VALIDATION_DETAIL_MAX"`
}

// DisplayConfig holds output formatting options
type DisplayConfig struct {
	DateFormat          string `yaml:"date_format" mapstructure:"date_format" env:"TODO_DISPLAY_DATE_FORMAT"`
	ListDefaultFormat   string `yaml:"list_default_format" mapstructure:"list_default_format" env:"TODO_LIST_DEFAULT_FORMAT"`
	ExportDefaultFormat string `yaml:"export_default_format" mapstructure:"export_default_format" env:"TODO_EXPORT_DEFAULT_FORMAT"`
	// PDFFont is a TrueType font file used for PDF exports. Empty uses the
	// built-in Latin-1 fonts.
	PDFFont string `yaml:"pdf_font" mapstructure:"pdf_font" env:"TODO_PDF_FONT"`
}

// ServerConfig holds HTTP API options
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr" env:"TODO_SERVER_ADDR"`
	GinMode string `yaml:"gin_mode" mapstructure:"gin_mode" env:"TODO_GIN_MODE"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" env:"TODO_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" mapstructure:"verbose" env:"TODO_APP_VERBOSE"`
}

// DefaultDir returns ~/.todo, or .todo when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(homeDir, ".todo")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            DefaultDir(),
			FileFormat:     "json",
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0o755,
		},
		Validation: ValidationConfig{
			TitleMinLength:  1,
			TitleMaxLength:  255,
			DetailMaxLength: 4000,
		},
		Display: DisplayConfig{
			DateFormat:          "2006-01-02",
			ListDefaultFormat:   "table",
			ExportDefaultFormat: "csv",
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			GinMode: "release",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetStoragePath returns the full path of the task database or document.
// Without an explicit filename the backend picks todo.db or tasks.<format>.
func (c *Config) GetStoragePath() string {
	name := c.Storage.Filename
	if name == "" {
		if c.Storage.Backend == BackendFile {
			name = "tasks." + c.Storage.FileFormat
		} else {
			name = "todo.db"
		}
	}
	return filepath.Join(c.Storage.Dir, name)
}

// GetWriteTimeout bounds a single load or save.
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// LoadFromEnvironment loads configuration from TODO_* environment variables.
// Values that fail to parse are ignored.
func (c *Config) LoadFromEnvironment() error {
	if v := os.Getenv("TODO_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("TODO_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("TODO_STORAGE_FILENAME"); v != "" {
		c.Storage.Filename = v
	}
	if v := os.Getenv("TODO_STORAGE_FORMAT"); v != "" {
		c.Storage.FileFormat = strings.ToLower(v)
	}
	if v := os.Getenv("TODO_STORAGE_WRITE_TIMEOUT"); v != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(v, c.Storage.WriteTimeout)
	}
	if v := os.Getenv("TODO_STORAGE_DIR_PERMISSIONS"); v != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(v, 8, c.Storage.DirPermissions)
	}

	if v := os.Getenv("TODO_VALIDATION_TITLE_MIN"); v != "" {
		c.Validation.TitleMinLength = ParseIntWithFallback(v, c.Validation.TitleMinLength)
	}
	if v := os.Getenv("TODO_VALIDATION_TITLE_MAX"); v != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(v, c.Validation.TitleMaxLength)
	}
	if v := os.Getenv("TODO_VALIDATION_DETAIL_MAX"); v != "" {
		c.Validation.DetailMaxLength = ParseIntWithFallback(v, c.Validation.DetailMaxLength)
	}

	if v := os.Getenv("TODO_DISPLAY_DATE_FORMAT"); v != "" {
		c.Display.DateFormat = v
	}
	if v := os.Getenv("TODO_LIST_DEFAULT_FORMAT"); v != "" {
		c.Display.ListDefaultFormat = v
	}
	if v := os.Getenv("TODO_EXPORT_DEFAULT_FORMAT"); v != "" {
		c.Display.ExportDefaultFormat = v
	}
	if v := os.Getenv("TODO_PDF_FONT"); v != "" {
		c.Display.PDFFont = v
	}

	if v := os.Getenv("TODO_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TODO_GIN_MODE"); v != "" {
		c.Server.GinMode = v
	}

	if v := os.Getenv("TODO_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}
	if v := os.Getenv("TODO_APP_VERBOSE"); v != "" {
		c.Application.Verbose = ParseBoolWithFallback(v, c.Application.Verbose)
	}
	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be sqlite or file"}
	}
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Backend == BackendFile {
		switch c.Storage.FileFormat {
		case "json", "yaml", "toml":
		default:
			return &ConfigError{Field: "storage.file_format", Message: "file format must be json, yaml or toml"}
		}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must not be less than the minimum"}
	}
	if c.Validation.DetailMaxLength < 0 {
		return &ConfigError{Field: "validation.detail_max_length", Message: "detail maximum length cannot be negative"}
	}

	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return &ConfigError{Field: "server.gin_mode", Message: "gin mode must be debug, release or test"}
	}
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
