package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/buildinfo/internal/timecode"
)

func loadFrom(t *testing.T, env map[string]string, opts ...LoadOption) *Config {
	t.Helper()
	opts = append([]LoadOption{WithLookuper(envconfig.MapLookuper(env))}, opts...)
	cfg, err := Load(context.Background(), opts...)
	require.NoError(t, err)
	return cfg
}

func validConfig() *Config {
	return &Config{
		Group:        "com.example",
		Name:         "App",
		Version:      "2.1.0",
		Filename:     "build-info.json",
		Destinations: []string{"out"},
		CodeBitXor:   Mask(timecode.DefaultMask),
		TimeZone:     "UTC",
		LogFormat:    "text",
		LogLevel:     "info",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFrom(t, map[string]string{})

	assert.Equal(t, "build-info.json", cfg.Filename)
	assert.Equal(t, Mask(0xff00ff00), cfg.CodeBitXor)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.False(t, cfg.UseRootName)
	assert.Empty(t, cfg.Destinations)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("BUILDINFO_GROUP", "com.example")
	t.Setenv("BUILDINFO_NAME", "app-core")
	t.Setenv("BUILDINFO_ROOT_NAME", "App")
	t.Setenv("BUILDINFO_VERSION", "2.1.0")
	t.Setenv("BUILDINFO_USE_ROOT_NAME", "true")
	t.Setenv("BUILDINFO_FILENAME", "my-file.json")
	t.Setenv("BUILDINFO_DESTINATIONS", "src/main/resources,build/generated")
	t.Setenv("BUILDINFO_CODE_BIT_XOR", "0x11223344")
	t.Setenv("BUILDINFO_TIME_ZONE", "Europe/Madrid")
	t.Setenv("BUILDINFO_S3_REGION", "eu-west-1")
	t.Setenv("BUILDINFO_S3_ENDPOINT", "http://localhost:4566")
	t.Setenv("AWS_ACCESS_KEY_ID", "access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("BUILDINFO_LOG_FORMAT", "json")
	t.Setenv("BUILDINFO_LOG_LEVEL", "debug")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "com.example", cfg.Group)
	assert.Equal(t, "app-core", cfg.Name)
	assert.Equal(t, "App", cfg.RootName)
	assert.Equal(t, "2.1.0", cfg.Version)
	assert.True(t, cfg.UseRootName)
	assert.Equal(t, "my-file.json", cfg.Filename)
	assert.Equal(t, []string{"src/main/resources", "build/generated"}, cfg.Destinations)
	assert.Equal(t, Mask(0x11223344), cfg.CodeBitXor)
	assert.Equal(t, "Europe/Madrid", cfg.TimeZone)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "http://localhost:4566", cfg.S3Endpoint)
	assert.Equal(t, "access-key", cfg.AWSAccessKeyID)
	assert.Equal(t, "secret-key", cfg.AWSSecretAccessKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Mask(t *testing.T) {
	tests := []struct {
		input string
		want  Mask
	}{
		{"0", 0},
		{"12345", 12345},
		{"0xff00ff00", 0xff00ff00},
		{"0XFF", 0xff},
		{"0b101", 5},
		{" 0x10 ", 16},
		{"4294967295", 0xffffffff},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg := loadFrom(t, map[string]string{"BUILDINFO_CODE_BIT_XOR": tt.input})
			assert.Equal(t, tt.want, cfg.CodeBitXor)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"mask not a number", map[string]string{"BUILDINFO_CODE_BIT_XOR": "not-a-number"}},
		{"mask wider than 32 bits", map[string]string{"BUILDINFO_CODE_BIT_XOR": "0x100000000"}},
		{"negative mask", map[string]string{"BUILDINFO_CODE_BIT_XOR": "-1"}},
		{"bad bool", map[string]string{"BUILDINFO_USE_ROOT_NAME": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), WithLookuper(envconfig.MapLookuper(tt.env)))
			require.Error(t, err)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildinfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
group: file.group
name: FileName
version: 1.0.0
use_root_name: false
filename: from-file.json
destinations:
  - file/a
  - file/b
code_bit_xor: "0x11223344"
time_zone: America/New_York
log_level: warn
`), 0o600))

	env := map[string]string{
		"BUILDINFO_NAME":    "EnvName",
		"BUILDINFO_VERSION": "2.0.0",
	}
	overrides := map[string]string{
		"BUILDINFO_VERSION": "3.0.0",
	}

	cfg := loadFrom(t, env, WithFile(path), WithOverrides(overrides))

	assert.Equal(t, "file.group", cfg.Group, "file value used when nothing else sets it")
	assert.Equal(t, "EnvName", cfg.Name, "environment beats file")
	assert.Equal(t, "3.0.0", cfg.Version, "overrides beat environment")
	assert.Equal(t, "from-file.json", cfg.Filename)
	assert.Equal(t, []string{"file/a", "file/b"}, cfg.Destinations)
	assert.Equal(t, Mask(0x11223344), cfg.CodeBitXor)
	assert.Equal(t, "America/New_York", cfg.TimeZone)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "defaults fill the rest")
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), WithFile(filepath.Join(t.TempDir(), "nope.yaml")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("destinations: [unclosed"), 0o600))

		_, err := Load(context.Background(), WithFile(path))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse settings file")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Name = ""
		assert.ErrorIs(t, cfg.Validate(), ErrNameRequired)
	})

	t.Run("root name required when selected", func(t *testing.T) {
		cfg := validConfig()
		cfg.UseRootName = true
		assert.ErrorIs(t, cfg.Validate(), ErrRootNameRequired)

		cfg.RootName = "Root"
		cfg.Name = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("no destinations", func(t *testing.T) {
		cfg := validConfig()
		cfg.Destinations = nil
		assert.ErrorIs(t, cfg.Validate(), ErrNoDestinations)

		cfg.Destinations = []string{"", "  "}
		assert.ErrorIs(t, cfg.Validate(), ErrNoDestinations)
	})

	t.Run("unknown time zone", func(t *testing.T) {
		cfg := validConfig()
		cfg.TimeZone = "Mars/Olympus_Mons"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTimeZone)
	})

	t.Run("missing version", func(t *testing.T) {
		cfg := validConfig()
		cfg.Version = ""
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalid)
		assertFieldFailed(t, err, "Version")
	})

	t.Run("unknown log format", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogFormat = "xml"
		assertFieldFailed(t, cfg.Validate(), "LogFormat")
	})

	t.Run("bad endpoint", func(t *testing.T) {
		cfg := validConfig()
		cfg.S3Endpoint = "not a url"
		assertFieldFailed(t, cfg.Validate(), "S3Endpoint")
	})

	for _, name := range []string{"", ".", "..", "dir/file.json", `dir\file.json`} {
		t.Run("filename "+name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Filename = name
			assertFieldFailed(t, cfg.Validate(), "Filename")
		})
	}
}

func assertFieldFailed(t *testing.T, err error, field string) {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	for _, fe := range verrs {
		if fe.Field() == field {
			return
		}
	}
	t.Errorf("field %s did not fail validation: %v", field, err)
}

func TestConfig_ProjectName(t *testing.T) {
	cfg := &Config{Group: "g", Name: "sub", RootName: "root", Version: "1"}
	assert.Equal(t, "sub", cfg.ProjectName())
	assert.Equal(t, "sub", cfg.Coordinates().Name)

	cfg.UseRootName = true
	assert.Equal(t, "root", cfg.ProjectName())
	coords := cfg.Coordinates()
	assert.Equal(t, "g", coords.Group)
	assert.Equal(t, "root", coords.Name)
	assert.Equal(t, "1", coords.Version)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.TimeZone = "Asia/Tokyo"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestConfig_Encoder(t *testing.T) {
	cfg := &Config{CodeBitXor: 0}
	assert.Equal(t, "3x2sh00", cfg.Encoder().Encode(757425600))
	assert.Equal(t, uint32(0), cfg.Encoder().Mask())
}

func TestMask_String(t *testing.T) {
	assert.Equal(t, "0xff00ff00", Mask(0xff00ff00).String())
	assert.Equal(t, "0x00000001", Mask(1).String())
}

func TestConfig_String(t *testing.T) {
	cfg := validConfig()
	cfg.AWSAccessKeyID = "access-key-id"
	cfg.AWSSecretAccessKey = "secret-key"

	str := cfg.String()

	// Should contain non-sensitive values
	assert.Contains(t, str, "com.example")
	assert.Contains(t, str, "build-info.json")
	assert.Contains(t, str, "0xff00ff00")

	// Should NOT contain sensitive values
	assert.NotContains(t, str, "access-key-id")
	assert.NotContains(t, str, "secret-key")

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-key")
}

func TestConfig_NewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogFormat: "json", LogLevel: "info"}

		logger := cfg.NewLogger(&buf)
		logger.Debug("hidden")
		logger.Info("test message", slog.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogFormat: "text", LogLevel: "debug"}

		cfg.NewLogger(&buf).Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
