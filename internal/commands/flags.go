package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maauso/buildinfo/internal/config"
)

// envAnnotation links a flag to the environment variable it overrides.
const envAnnotation = "buildinfo_env"

func envFlag(fs *pflag.FlagSet, name, env string) {
	_ = fs.SetAnnotation(name, envAnnotation, []string{env})
}

// addProjectFlags registers the flags a host build uses to pass project coordinates
// and output settings.
func addProjectFlags(fs *pflag.FlagSet) {
	fs.String("group", "", "project group")
	fs.String("name", "", "project name")
	fs.String("root-name", "", "root project name")
	fs.Bool("use-root-name", false, "record the root project name instead of the project name")
	fs.String("project-version", "", "project version")
	fs.String("filename", "", "output file name (default build-info.json)")
	fs.StringSliceP("destination", "d", nil, "destination directory, glob or s3:// URI (repeatable)")
	fs.String("time-zone", "", "time zone of the datetime stamp (default UTC)")
	fs.String("log-format", "", "log format: text or json")
	fs.String("log-level", "", "log level: debug, info, warn or error")

	envFlag(fs, "group", "BUILDINFO_GROUP")
	envFlag(fs, "name", "BUILDINFO_NAME")
	envFlag(fs, "root-name", "BUILDINFO_ROOT_NAME")
	envFlag(fs, "use-root-name", "BUILDINFO_USE_ROOT_NAME")
	envFlag(fs, "project-version", "BUILDINFO_VERSION")
	envFlag(fs, "filename", "BUILDINFO_FILENAME")
	envFlag(fs, "destination", "BUILDINFO_DESTINATIONS")
	envFlag(fs, "time-zone", "BUILDINFO_TIME_ZONE")
	envFlag(fs, "log-format", "BUILDINFO_LOG_FORMAT")
	envFlag(fs, "log-level", "BUILDINFO_LOG_LEVEL")
}

func addMaskFlag(fs *pflag.FlagSet) {
	fs.String("code-bit-xor", "", "32-bit mask xored into the code (default 0xff00ff00)")
	envFlag(fs, "code-bit-xor", "BUILDINFO_CODE_BIT_XOR")
}

// overrides collects the flags set on the command line, keyed by environment variable.
func overrides(fs *pflag.FlagSet) map[string]string {
	m := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		env := f.Annotations[envAnnotation]
		if len(env) == 0 {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			m[env[0]] = strings.Join(sv.GetSlice(), ",")
			return
		}
		m[env[0]] = f.Value.String()
	})
	return m
}

// loadConfig builds the configuration from flags, environment and the --config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := []config.LoadOption{config.WithOverrides(overrides(cmd.Flags()))}
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		opts = append(opts, config.WithFile(file))
	}
	return config.Load(cmd.Context(), opts...)
}
