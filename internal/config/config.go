package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/pound/internal/config/loader"
)

// Setting paths.
const (
	PathPollTimeout  = "editor.pollTimeout"
	PathLogLevel     = "logging.level"
	PathLogFile      = "logging.file"
	defaultDirName   = "pound"
	defaultFileName  = "config.toml"
	defaultLogLevel  = "info"
	defaultPollDelay = time.Second
)

// Config is the resolved editor configuration.
type Config struct {
	Editor  EditorConfig
	Logging LoggingConfig

	// Source is the configuration file that was read, or "" if none was.
	Source string
}

// EditorConfig holds event loop settings.
type EditorConfig struct {
	// PollTimeout bounds a single wait for input.
	PollTimeout time.Duration
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File receives log output. Empty discards logs.
	File string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			PollTimeout: defaultPollDelay,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	path     string
	fs       loader.FileSystem
	env      bool
	envPref  string
	required bool
}

// WithPath reads the configuration file at path instead of DefaultPath.
// An empty path disables the file layer.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFileSystem sets the file system used to read the configuration file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithRequired makes a missing configuration file an error.
func WithRequired() Option {
	return func(o *options) {
		o.required = true
	}
}

// WithEnv enables or disables the environment layer.
func WithEnv(enable bool) Option {
	return func(o *options) {
		o.env = enable
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pound/config.toml, or "" when no
// configuration directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, defaultDirName, defaultFileName)
}

// Load resolves the configuration from defaults, the TOML file and the
// environment, in increasing priority. A missing file is not an error.
func Load(opts ...Option) (*Config, error) {
	o := options{
		path:    DefaultPath(),
		fs:      loader.DefaultFS(),
		env:     true,
		envPref: loader.EnvPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.required && o.path != "" {
		if _, err := o.fs.Stat(o.path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	merged := make(map[string]any)
	cfg := Default()

	fileData, err := loader.NewTOMLLoader(o.fs, o.path).Load()
	if err != nil {
		return nil, err
	}
	if fileData != nil {
		cfg.Source = o.path
		merged = loader.DeepMerge(merged, fileData)
	}

	if o.env {
		envData, err := loader.NewEnvLoader(o.envPref).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envData)
	}

	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies known settings from a merged map into c.
func (c *Config) apply(data map[string]any) error {
	if v, ok := loader.GetByPath(data, PathPollTimeout); ok {
		d, err := toDuration(v)
		if err != nil {
			return &ValidationError{Path: PathPollTimeout, Value: v, Message: err.Error()}
		}
		c.Editor.PollTimeout = d
	}
	if v, ok := loader.GetByPath(data, PathLogLevel); ok {
		s, ok := v.(string)
		if !ok {
			return &ValidationError{Path: PathLogLevel, Value: v, Message: "must be a string"}
		}
		c.Logging.Level = s
	}
	if v, ok := loader.GetByPath(data, PathLogFile); ok {
		s, ok := v.(string)
		if !ok {
			return &ValidationError{Path: PathLogFile, Value: v, Message: "must be a string"}
		}
		c.Logging.File = s
	}
	return nil
}

// Validate checks that every setting holds an allowed value.
func (c *Config) Validate() error {
	if c.Editor.PollTimeout <= 0 {
		return &ValidationError{
			Path:    PathPollTimeout,
			Value:   c.Editor.PollTimeout,
			Message: "must be greater than zero",
		}
	}
	if !ValidLogLevel(c.Logging.Level) {
		return &ValidationError{
			Path:    PathLogLevel,
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error",
		}
	}
	return nil
}

// ValidLogLevel reports whether s names a known log level.
func ValidLogLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ParseDuration accepts a Go duration string or a bare integer number of
// milliseconds.
func ParseDuration(s string) (time.Duration, error) {
	v := loader.ParseValue(s)
	if str, ok := v.(string); ok {
		return 0, fmt.Errorf("invalid duration %q", str)
	}
	return toDuration(v)
}

func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", d)
		}
		return parsed, nil
	case int64:
		if d > math.MaxInt64/int64(time.Millisecond) || d < math.MinInt64/int64(time.Millisecond) {
			return 0, errors.New("duration out of range")
		}
		return time.Duration(d) * time.Millisecond, nil
	case float64:
		return time.Duration(d * float64(time.Millisecond)), nil
	default:
		return 0, fmt.Errorf("unsupported duration type %T", v)
	}
}
