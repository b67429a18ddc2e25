package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSettings represents a YAML settings file.
// Field names match snake_case YAML keys. Credentials are only read from the environment.
type FileSettings struct {
	Group        string   `yaml:"group"`
	Name         string   `yaml:"name"`
	RootName     string   `yaml:"root_name"`
	Version      string   `yaml:"version"`
	UseRootName  *bool    `yaml:"use_root_name"`
	Filename     string   `yaml:"filename"`
	Destinations []string `yaml:"destinations"`
	CodeBitXor   string   `yaml:"code_bit_xor"`
	TimeZone     string   `yaml:"time_zone"`
	S3Region     string   `yaml:"s3_region"`
	S3Endpoint   string   `yaml:"s3_endpoint"`
	LogFormat    string   `yaml:"log_format"`
	LogLevel     string   `yaml:"log_level"`
}

// LoadFile reads a YAML settings file.
func LoadFile(path string) (FileSettings, error) {
	b, err := os.ReadFile(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return FileSettings{}, fmt.Errorf("config: read settings file: %w", err)
	}

	var s FileSettings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return FileSettings{}, fmt.Errorf("config: parse settings file %s: %w", path, err)
	}
	return s, nil
}

// envMap maps the file's non-empty values onto environment variable names.
func (s FileSettings) envMap() map[string]string {
	m := make(map[string]string)
	set := func(key, val string) {
		if val != "" {
			m[key] = val
		}
	}

	set("BUILDINFO_GROUP", s.Group)
	set("BUILDINFO_NAME", s.Name)
	set("BUILDINFO_ROOT_NAME", s.RootName)
	set("BUILDINFO_VERSION", s.Version)
	if s.UseRootName != nil {
		m["BUILDINFO_USE_ROOT_NAME"] = strconv.FormatBool(*s.UseRootName)
	}
	set("BUILDINFO_FILENAME", s.Filename)
	set("BUILDINFO_DESTINATIONS", strings.Join(s.Destinations, ","))
	set("BUILDINFO_CODE_BIT_XOR", s.CodeBitXor)
	set("BUILDINFO_TIME_ZONE", s.TimeZone)
	set("BUILDINFO_S3_REGION", s.S3Region)
	set("BUILDINFO_S3_ENDPOINT", s.S3Endpoint)
	set("BUILDINFO_LOG_FORMAT", s.LogFormat)
	set("BUILDINFO_LOG_LEVEL", s.LogLevel)
	return m
}
