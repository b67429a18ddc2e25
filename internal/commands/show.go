package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maauso/buildinfo/internal/buildinfo"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print a build info file",
		Long:  "Print the build info file at path. A directory path reads --filename inside it. Defaults to the current directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			filename, _ := cmd.Flags().GetString("filename")
			asJSON, _ := cmd.Flags().GetBool("json")

			info, err := loadInfo(path, filename)
			if err != nil {
				return err
			}

			if asJSON {
				_, err = cmd.OutOrStdout().Write(buildinfo.Marshal(info))
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "BuildInfo: %s\n", info)
			return err
		},
	}

	cmd.Flags().String("filename", buildinfo.DefaultFilename, "file name inside a directory path")
	cmd.Flags().Bool("json", false, "print the file content instead of the summary")
	return cmd
}

func loadInfo(path, filename string) (buildinfo.BuildInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return buildinfo.BuildInfo{}, fmt.Errorf("read build info: %w", err)
	}
	if st.IsDir() {
		return buildinfo.LoadFromDirectory(path, filename)
	}
	return buildinfo.Load(path)
}
