// Package buildinfo provides the BuildInfo record describing one build,
// its assembly from project coordinates and a clock reading, and its
// JSON file format.
package buildinfo

import (
	"fmt"
	"time"

	"github.com/maauso/buildinfo/internal/timecode"
)

// DefaultFilename is the leaf name of the build info file.
const DefaultFilename = "build-info.json"

// DatetimeLayout formats the build instant as a sortable 14-digit stamp.
const DatetimeLayout = "20060102150405"

// Coordinates identify the project being built.
type Coordinates struct {
	Group   string
	Name    string
	Version string
}

// BuildInfo describes a single build. Values are immutable once assembled.
type BuildInfo struct {
	group    string
	name     string
	version  string
	datetime string
	code     string
}

// New creates a BuildInfo from already formatted values.
func New(group, name, version, datetime, code string) BuildInfo {
	return BuildInfo{
		group:    group,
		name:     name,
		version:  version,
		datetime: datetime,
		code:     code,
	}
}

// Assemble builds the record for a clock reading.
// The datetime stamp and the code are both derived from the same reading.
// A nil loc formats the stamp in UTC.
func Assemble(coords Coordinates, reading timecode.Reading, enc *timecode.Encoder, loc *time.Location) BuildInfo {
	if loc == nil {
		loc = time.UTC
	}
	return New(
		coords.Group,
		coords.Name,
		coords.Version,
		reading.Instant.In(loc).Format(DatetimeLayout),
		enc.Code(reading.Elapsed),
	)
}

// Group returns the project group.
func (b BuildInfo) Group() string { return b.group }

// Name returns the project name.
func (b BuildInfo) Name() string { return b.name }

// Version returns the project version.
func (b BuildInfo) Version() string { return b.version }

// Datetime returns the build datetime stamp.
func (b BuildInfo) Datetime() string { return b.datetime }

// Code returns the build code.
func (b BuildInfo) Code() string { return b.code }

// String returns the one-line summary, e.g. "com.example:App:2.1.0 (k3qs) 20240101120000".
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s:%s:%s (%s) %s", b.group, b.name, b.version, b.code, b.datetime)
}
