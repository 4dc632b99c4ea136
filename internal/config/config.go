// Package config loads domshot settings from defaults, an optional YAML
// file and DOMSHOT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"domshot/pkg/text"
)

const EnvPrefix = "DOMSHOT"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Logger  LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Render  RenderConfig    `mapstructure:"render" yaml:"render"`
	Images  ImagesConfig    `mapstructure:"images" yaml:"images"`
	Fonts   text.FontConfig `mapstructure:"fonts" yaml:"fonts"`
	Capture CaptureConfig   `mapstructure:"capture" yaml:"capture"`
	Batch   BatchConfig     `mapstructure:"batch" yaml:"batch"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal colour of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// RenderConfig holds the output settings. A zero Width or Height uses the
// snapshot viewport.
type RenderConfig struct {
	Scale           float64 `mapstructure:"scale" yaml:"scale"`
	Width           float64 `mapstructure:"width" yaml:"width"`
	Height          float64 `mapstructure:"height" yaml:"height"`
	BackgroundColor string  `mapstructure:"background_color" yaml:"background_color"`
	UserAgent       string  `mapstructure:"user_agent" yaml:"user_agent"`
	LegacyRotate    bool    `mapstructure:"legacy_rotate" yaml:"legacy_rotate"`
}

// ImagesConfig configures the asset cache. Relative URLs resolve
// against BaseURL; Root, when set, serves file paths from a directory.
// MaxBytes caps each downloaded asset.
type ImagesConfig struct {
	CacheSize int    `mapstructure:"cache_size" yaml:"cache_size"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	Root      string `mapstructure:"root" yaml:"root"`
	MaxBytes  int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

type CaptureConfig struct {
	Width        int           `mapstructure:"width" yaml:"width"`
	Height       int           `mapstructure:"height" yaml:"height"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	WaitSelector string        `mapstructure:"wait_selector" yaml:"wait_selector"`
	Settle       time.Duration `mapstructure:"settle" yaml:"settle"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExecPath     string        `mapstructure:"exec_path" yaml:"exec_path"`
	RemoteURL    string        `mapstructure:"remote_url" yaml:"remote_url"`
	Headful      bool          `mapstructure:"headful" yaml:"headful"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// SetDefaults registers the default value of every key. Keys without a
// default are invisible to environment overrides.
func SetDefaults(v *viper.Viper) {
	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "domshot")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// Render
	v.SetDefault("render.scale", 1.0)
	v.SetDefault("render.width", 0.0)
	v.SetDefault("render.height", 0.0)
	v.SetDefault("render.background_color", "")
	v.SetDefault("render.user_agent", "")
	v.SetDefault("render.legacy_rotate", true)

	// Images
	v.SetDefault("images.cache_size", 256)
	v.SetDefault("images.base_url", "")
	v.SetDefault("images.root", "")
	v.SetDefault("images.max_bytes", 32<<20)

	// Fonts
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")
	v.SetDefault("fonts.monospace", "")
	v.SetDefault("fonts.mono_bold", "")

	// Capture
	v.SetDefault("capture.width", 1280)
	v.SetDefault("capture.height", 800)
	v.SetDefault("capture.user_agent", "")
	v.SetDefault("capture.wait_selector", "body")
	v.SetDefault("capture.settle", "250ms")
	v.SetDefault("capture.timeout", "30s")
	v.SetDefault("capture.exec_path", "")
	v.SetDefault("capture.remote_url", "")
	v.SetDefault("capture.headful", false)

	v.SetDefault("batch.concurrency", 4)
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// FromViper decodes the settings held by v without validating them.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// New returns a viper instance with defaults and environment overrides
// applied. A non-empty path is read as YAML; a missing file is skipped.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// Load reads, decodes and validates the configuration.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path as YAML.
func WriteDefault(path string) error {
	out, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Scale <= 0 {
		errs = append(errs, fmt.Errorf("render.scale must be positive, got %g", c.Render.Scale))
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		errs = append(errs, fmt.Errorf("render size must not be negative, got %gx%g", c.Render.Width, c.Render.Height))
	}
	if c.Capture.Width < 0 || c.Capture.Height < 0 {
		errs = append(errs, fmt.Errorf("capture size must not be negative, got %dx%d", c.Capture.Width, c.Capture.Height))
	}
	if c.Capture.Timeout < 0 || c.Capture.Settle < 0 {
		errs = append(errs, errors.New("capture durations must not be negative"))
	}
	if c.Images.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("images.cache_size must be at least 1, got %d", c.Images.CacheSize))
	}
	if c.Images.MaxBytes < 1 {
		errs = append(errs, fmt.Errorf("images.max_bytes must be at least 1, got %d", c.Images.MaxBytes))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be at least 1, got %d", c.Batch.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
