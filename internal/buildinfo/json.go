package buildinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingField is returned when a build info file lacks one of its fields.
var ErrMissingField = errors.New("buildinfo: missing field")

// field is one entry of the file format.
type field struct {
	key   string
	value string
}

// fields lists the file's entries in their fixed output order.
func (b BuildInfo) fields() []field {
	return []field{
		{"group", b.group},
		{"name", b.name},
		{"version", b.version},
		{"datetime", b.datetime},
		{"code", b.code},
	}
}

// Marshal renders b as a JSON object with its fields in a fixed order,
// two-space indentation and a trailing newline.
func Marshal(b BuildInfo) []byte {
	var buf bytes.Buffer
	fields := b.fields()

	buf.WriteString("{\n")
	for i, f := range fields {
		buf.WriteString("  ")
		writeString(&buf, f.key)
		buf.WriteString(": ")
		writeString(&buf, f.value)
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// writeString appends s as a quoted JSON string.
func writeString(buf *bytes.Buffer, s string) {
	// Marshalling a string cannot fail.
	quoted, _ := json.Marshal(s)
	buf.Write(quoted)
}

// MarshalJSON implements json.Marshaler using the fixed field order.
func (b BuildInfo) MarshalJSON() ([]byte, error) {
	return bytes.TrimRight(Marshal(b), "\n"), nil
}

// fileJSON is the decoded form of a build info file.
type fileJSON struct {
	Group    *string `json:"group"`
	Name     *string `json:"name"`
	Version  *string `json:"version"`
	Datetime *string `json:"datetime"`
	Code     *string `json:"code"`
}

// UnmarshalJSON implements json.Unmarshaler. All five fields are required.
func (b *BuildInfo) UnmarshalJSON(data []byte) error {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode build info: %w", err)
	}

	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	switch {
	case f.Group == nil:
		return missing("group")
	case f.Name == nil:
		return missing("name")
	case f.Version == nil:
		return missing("version")
	case f.Datetime == nil:
		return missing("datetime")
	case f.Code == nil:
		return missing("code")
	}

	*b = New(*f.Group, *f.Name, *f.Version, *f.Datetime, *f.Code)
	return nil
}

// Parse decodes a build info file's content.
func Parse(data []byte) (BuildInfo, error) {
	var b BuildInfo
	if err := json.Unmarshal(data, &b); err != nil {
		return BuildInfo{}, err
	}
	return b, nil
}

// Load reads and decodes the build info file at path.
func Load(path string) (BuildInfo, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return BuildInfo{}, fmt.Errorf("read build info: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return BuildInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadFromDirectory loads filename from dir. An empty filename means DefaultFilename.
func LoadFromDirectory(dir, filename string) (BuildInfo, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	return Load(filepath.Join(dir, filename))
}
