// Package bootstrap provides dependency initialization for the build info step.
package bootstrap

import (
	"io"
	"log/slog"

	"github.com/maauso/buildinfo/internal/config"
	"github.com/maauso/buildinfo/internal/pipeline"
	"github.com/maauso/buildinfo/internal/storage"
)

// Dependencies holds all initialized dependencies for one invocation.
type Dependencies struct {
	Resolver *storage.Resolver
	Step     *pipeline.SaveStep
}

// NewDependencies creates and initializes all dependencies for the application.
// The summary line of the step is written to stdout.
func NewDependencies(cfg *config.Config, logger *slog.Logger, stdout io.Writer, opts ...pipeline.Option) *Dependencies {
	resolver := initResolver(cfg, logger)

	opts = append([]pipeline.Option{pipeline.WithStdout(stdout)}, opts...)
	step := pipeline.NewSaveStep(resolver, logger, opts...)

	return &Dependencies{
		Resolver: resolver,
		Step:     step,
	}
}

// initResolver creates the destination resolver. S3 settings are passed along
// unconditionally; the client is only built if an s3:// destination shows up.
func initResolver(cfg *config.Config, logger *slog.Logger) *storage.Resolver {
	s3Cfg := storage.S3Config{
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}
	if s3Cfg.Region != "" || s3Cfg.Endpoint != "" {
		logger.Debug("S3 destinations configured",
			slog.String("region", s3Cfg.Region),
			slog.String("endpoint", s3Cfg.Endpoint),
		)
	}
	return storage.NewResolver(s3Cfg)
}
