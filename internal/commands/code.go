package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maauso/buildinfo/internal/timecode"
)

func newCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code <code>",
		Short: "Decode a build code back to the second it was generated",
		Long: `Decode a build code using the configured mask.

Codes repeat every 2^32 seconds; the earliest matching instant is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			elapsed, err := cfg.Encoder().Decode(args[0])
			if err != nil {
				return err
			}

			at := timecode.NewTimeKeeper().At(uint64(elapsed))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d seconds after %s (%s)\n",
				args[0], elapsed, timecode.ZeroInstant.Format(time.RFC3339), at.UTC().Format(time.RFC3339))
			return err
		},
	}

	addMaskFlag(cmd.Flags())
	return cmd
}
