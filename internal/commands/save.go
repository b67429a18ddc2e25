package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/maauso/buildinfo/internal/bootstrap"
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write the build info file to every destination",
		Long: `Generate build info for the current project and write it to every destination.

Settings come from flags, then BUILDINFO_* environment variables, then the --config file.
The summary line "BuildInfo: group:name:version (code) datetime" is printed on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			logger.Debug("configuration loaded", slog.String("config", cfg.String()))

			deps := bootstrap.NewDependencies(cfg, logger, cmd.OutOrStdout())
			_, err = deps.Step.Run(cmd.Context(), cfg)
			return err
		},
	}

	addProjectFlags(cmd.Flags())
	addMaskFlag(cmd.Flags())
	return cmd
}
