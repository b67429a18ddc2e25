package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Errors returned while resolving destination entries.
var (
	// ErrInvalidDestination is returned for an entry that cannot be parsed.
	ErrInvalidDestination = errors.New("storage: invalid destination")
	// ErrUnmatchedPattern is returned when a glob entry matches no directory.
	ErrUnmatchedPattern = errors.New("storage: pattern matched no directory")
)

// S3Scheme prefixes destinations stored in S3, e.g. "s3://bucket/builds/app".
const S3Scheme = "s3://"

// Resolver turns configured destination entries into Destinations.
// Entries are local directory paths, doublestar glob patterns matching
// existing directories, or s3:// URIs.
type Resolver struct {
	s3Config  S3Config
	newClient func(ctx context.Context, cfg S3Config) (ObjectPutter, error)
	client    ObjectPutter
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithObjectPutter makes S3 destinations use client instead of building one from S3Config.
func WithObjectPutter(client ObjectPutter) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// NewResolver creates a Resolver. s3Config is only used if an s3:// entry appears.
func NewResolver(s3Config S3Config, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		s3Config: s3Config,
		newClient: func(ctx context.Context, cfg S3Config) (ObjectPutter, error) {
			return NewS3Client(ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses entries into Destinations.
// Blank entries are skipped and duplicates collapse onto their first occurrence.
// Glob patterns are expanded against the filesystem in sorted order.
func (r *Resolver) Resolve(ctx context.Context, entries []string) ([]Destination, error) {
	var dests []Destination
	seen := make(map[string]bool)
	add := func(key string, d Destination) {
		if seen[key] {
			return
		}
		seen[key] = true
		dests = append(dests, d)
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
			continue

		case strings.HasPrefix(entry, S3Scheme):
			d, err := r.s3Destination(ctx, entry)
			if err != nil {
				return nil, err
			}
			add(S3Scheme+d.Bucket()+"/"+d.Prefix(), d)

		case isPattern(entry):
			dirs, err := globDirs(entry)
			if err != nil {
				return nil, err
			}
			for _, dir := range dirs {
				add(filepath.Clean(dir), NewLocalDestination(dir))
			}

		default:
			add(filepath.Clean(entry), NewLocalDestination(entry))
		}
	}
	return dests, nil
}

func (r *Resolver) s3Destination(ctx context.Context, entry string) (*S3Destination, error) {
	u, err := url.Parse(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDestination, entry, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no bucket", ErrInvalidDestination, entry)
	}

	if r.client == nil {
		client, err := r.newClient(ctx, r.s3Config)
		if err != nil {
			return nil, fmt.Errorf("create S3 client: %w", err)
		}
		r.client = client
	}
	return NewS3Destination(r.client, u.Host, u.Path), nil
}

// globDirs expands pattern to the existing directories it matches.
func globDirs(pattern string) ([]string, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDestination, pattern, doublestar.ErrBadPattern)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDestination, pattern, err)
	}

	var dirs []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, m)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnmatchedPattern, pattern)
	}
	sort.Strings(dirs)
	return dirs, nil
}
