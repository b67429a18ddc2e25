// Package pipeline provides the build step that generates the build info
// file. The host build invokes it through the Hook interface and decides
// when it runs relative to its other steps.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maauso/buildinfo/internal/buildinfo"
	"github.com/maauso/buildinfo/internal/config"
	"github.com/maauso/buildinfo/internal/storage"
	"github.com/maauso/buildinfo/internal/timecode"
)

// Hook is the single entry point a host build calls.
type Hook interface {
	Run(ctx context.Context, cfg *config.Config) (*Result, error)
}

// Result describes a completed run.
type Result struct {
	// Info is the generated build info.
	Info buildinfo.BuildInfo
	// Content is the serialized file.
	Content []byte
	// Targets lists every location the file was written to.
	Targets []string
}

// Resolver turns configured destination entries into writable destinations.
type Resolver interface {
	Resolve(ctx context.Context, entries []string) ([]storage.Destination, error)
}

// SaveStep generates build info and writes it to every configured destination.
// It coordinates between the clock, the code encoder and storage:
//  1. Validate the configuration and resolve destinations
//  2. Read the clock once
//  3. Assemble and serialize the build info
//  4. Write the file everywhere, collecting failures
//  5. Print the summary line
type SaveStep struct {
	resolver Resolver
	keeper   *timecode.TimeKeeper
	stdout   io.Writer
	logger   *slog.Logger
}

var _ Hook = (*SaveStep)(nil)

// Option is a function that configures a SaveStep.
type Option func(*SaveStep)

// WithTimeKeeper replaces the system clock based TimeKeeper.
func WithTimeKeeper(k *timecode.TimeKeeper) Option {
	return func(s *SaveStep) {
		if k != nil {
			s.keeper = k
		}
	}
}

// WithStdout sets where the summary line is printed. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(s *SaveStep) {
		if w != nil {
			s.stdout = w
		}
	}
}

// NewSaveStep creates a SaveStep.
func NewSaveStep(resolver Resolver, logger *slog.Logger, opts ...Option) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SaveStep{
		resolver: resolver,
		keeper:   timecode.NewTimeKeeper(),
		stdout:   os.Stdout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the step with cfg.
// Configuration and clock problems are reported before anything is written.
// Write failures are reported after every destination has been attempted; the
// returned Result is non-nil in that case and lists the targets that succeeded.
func (s *SaveStep) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	dests, err := s.resolver.Resolve(ctx, cfg.Destinations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if len(dests) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, storage.ErrNoDestinations)
	}

	reading, err := s.keeper.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClock, err)
	}

	info := buildinfo.Assemble(cfg.Coordinates(), reading, cfg.Encoder(), loc)
	content := buildinfo.Marshal(info)

	s.logger.Debug("writing build info",
		slog.String("code", info.Code()),
		slog.String("datetime", info.Datetime()),
		slog.Int("destinations", len(dests)),
	)

	written, err := storage.WriteAll(ctx, dests, cfg.Filename, content)
	for _, target := range written {
		s.logger.Info("build info written", slog.String("target", target))
	}
	result := &Result{Info: info, Content: content, Targets: written}
	if err != nil {
		for _, target := range storage.FailedTargets(err) {
			s.logger.Error("failed to write build info", slog.String("target", target))
		}
		return result, fmt.Errorf("%w: %w", ErrIO, err)
	}

	if _, err := fmt.Fprintf(s.stdout, "BuildInfo: %s\n", info); err != nil {
		return result, fmt.Errorf("%w: print summary: %w", ErrIO, err)
	}
	return result, nil
}
