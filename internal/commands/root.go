// Package commands implements the buildinfo command-line interface.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	err := NewRootCmd(version).Execute()
	if err != nil {
		slog.Error("command failed", "error", err.Error())
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "buildinfo",
		Short:         "Generate build info files stamped with a short time-based build code",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().String("config", "", "YAML settings file (values below environment and flags)")

	root.AddCommand(newSaveCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newCodeCmd())
	return root
}
