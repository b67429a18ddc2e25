// Package config provides configuration loading from environment variables,
// an optional YAML file and command-line overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // time zones resolve on hosts without a zoneinfo database

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/maauso/buildinfo/internal/buildinfo"
	"github.com/maauso/buildinfo/internal/timecode"
)

// Static errors for configuration validation.
var (
	// ErrNameRequired is returned when the project name is not set.
	ErrNameRequired = errors.New("config: BUILDINFO_NAME is required")
	// ErrRootNameRequired is returned when BUILDINFO_USE_ROOT_NAME is set without a root name.
	ErrRootNameRequired = errors.New("config: BUILDINFO_ROOT_NAME is required when BUILDINFO_USE_ROOT_NAME is true")
	// ErrNoDestinations is returned when no destination directory is configured.
	ErrNoDestinations = errors.New("config: at least one destination is required")
	// ErrInvalidTimeZone is returned when BUILDINFO_TIME_ZONE is not a known location.
	ErrInvalidTimeZone = errors.New("config: unknown time zone")
	// ErrInvalid wraps struct validation failures.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Mask is a 32-bit xor mask. It parses decimal, 0x hex, 0o octal and 0b binary.
type Mask uint32

// EnvDecode implements envconfig.Decoder.
func (m *Mask) EnvDecode(val string) error {
	v, err := strconv.ParseUint(strings.TrimSpace(val), 0, 32)
	if err != nil {
		return fmt.Errorf("parse mask %q: %w", val, err)
	}
	*m = Mask(v)
	return nil
}

// String formats the mask as 0x-prefixed hex.
func (m Mask) String() string {
	return fmt.Sprintf("0x%08x", uint32(m))
}

// Config holds all configuration for one build info invocation.
// It is built once by Load and treated as read-only afterwards.
type Config struct {
	// Project coordinates, supplied by the host build
	Group       string `env:"BUILDINFO_GROUP" json:"group"`
	Name        string `env:"BUILDINFO_NAME" json:"name"`
	RootName    string `env:"BUILDINFO_ROOT_NAME" json:"root_name,omitempty"`
	Version     string `env:"BUILDINFO_VERSION" json:"version" validate:"required"`
	UseRootName bool   `env:"BUILDINFO_USE_ROOT_NAME, default=false" json:"use_root_name"`

	// Output settings
	Filename     string   `env:"BUILDINFO_FILENAME, default=build-info.json" json:"filename" validate:"required,leafname"`
	Destinations []string `env:"BUILDINFO_DESTINATIONS" json:"destinations"`

	// Code settings
	CodeBitXor Mask   `env:"BUILDINFO_CODE_BIT_XOR, default=0xff00ff00" json:"code_bit_xor"`
	TimeZone   string `env:"BUILDINFO_TIME_ZONE, default=UTC" json:"time_zone"`

	// Optional S3 settings, used by s3:// destinations
	S3Region           string `env:"BUILDINFO_S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"BUILDINFO_S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"BUILDINFO_LOG_FORMAT, default=text" json:"log_format" validate:"omitempty,oneof=text json"` // "json" or "text"
	LogLevel  string `env:"BUILDINFO_LOG_LEVEL, default=info" json:"log_level"`                              // "debug", "info", "warn", "error"
}

// LoadOption configures where Load looks for values.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file      string
	overrides map[string]string
	lookuper  envconfig.Lookuper
}

// WithFile adds a YAML settings file underneath the environment.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithOverrides adds values, keyed by environment variable name, that take
// precedence over both the environment and the settings file.
func WithOverrides(overrides map[string]string) LoadOption {
	return func(o *loadOptions) {
		o.overrides = overrides
	}
}

// WithLookuper replaces the process environment. Used by tests.
func WithLookuper(l envconfig.Lookuper) LoadOption {
	return func(o *loadOptions) {
		o.lookuper = l
	}
}

// Load builds a Config. Lookup order (first found wins):
// 1) overrides (command-line flags)
// 2) environment variables
// 3) the settings file
// 4) defaults from the struct tags
// Load does not validate; call Validate before use.
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	o := &loadOptions{lookuper: envconfig.OsLookuper()}
	for _, opt := range opts {
		opt(o)
	}

	lookupers := make([]envconfig.Lookuper, 0, 3)
	if len(o.overrides) > 0 {
		lookupers = append(lookupers, envconfig.MapLookuper(o.overrides))
	}
	lookupers = append(lookupers, o.lookuper)
	if o.file != "" {
		settings, err := LoadFile(o.file)
		if err != nil {
			return nil, err
		}
		lookupers = append(lookupers, envconfig.MapLookuper(settings.envMap()))
	}

	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.MultiLookuper(lookupers...),
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// ProjectName returns the name recorded in the build info.
func (c *Config) ProjectName() string {
	if c.UseRootName {
		return c.RootName
	}
	return c.Name
}

// Coordinates returns the project coordinates to record.
func (c *Config) Coordinates() buildinfo.Coordinates {
	return buildinfo.Coordinates{
		Group:   c.Group,
		Name:    c.ProjectName(),
		Version: c.Version,
	}
}

// Encoder returns a code encoder using the configured mask.
func (c *Config) Encoder() *timecode.Encoder {
	return timecode.NewEncoder(uint32(c.CodeBitXor))
}

// Location resolves TimeZone. An empty value means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, c.TimeZone)
	}
	return loc, nil
}

// HasDestinations reports whether at least one non-blank destination is configured.
func (c *Config) HasDestinations() bool {
	for _, d := range c.Destinations {
		if strings.TrimSpace(d) != "" {
			return true
		}
	}
	return false
}

// Validate checks that the configuration can produce a build info file.
func (c *Config) Validate() error {
	if c.UseRootName && c.RootName == "" {
		return ErrRootNameRequired
	}
	if !c.UseRootName && c.Name == "" {
		return ErrNameRequired
	}
	if !c.HasDestinations() {
		return ErrNoDestinations
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// newValidator returns a validator that also knows the leafname tag:
// a single path element, with no separators and not "." or "..".
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("leafname", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name != "." && name != ".." &&
			!strings.ContainsAny(name, `/\`) &&
			filepath.Base(name) == name
	})
	return v
}

// NewLogger creates a structured logger based on the configuration, writing to w.
// When LogFormat is "json", it outputs JSON logs suitable for CI log collectors.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Group: %s, Name: %s, RootName: %s, Version: %s, UseRootName: %t, Filename: %s, Destinations: %v, CodeBitXor: %s, TimeZone: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s}",
		c.Group,
		c.Name,
		c.RootName,
		c.Version,
		c.UseRootName,
		c.Filename,
		c.Destinations,
		c.CodeBitXor,
		c.TimeZone,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
