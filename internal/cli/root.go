// Package cli wires the cobra command tree: the root command runs the
// reader TUI, subcommands cover setup and scripting.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/glabrego/esa-reader/internal/config"
)

const EnvLogFile = "ESA_READER_LOG_FILE"

type rootOptions struct {
	ConfigPath string
	Workspace  string
	View       string
	LogFile    string
	Debug      bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "esa-reader",
		Short:        "Read esa.io posts in the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the reader on the default workspace
  esa-reader

  # Start on another workspace, in the view that best matches "wip"
  esa-reader --workspace design --view wip

  # Create a starter config
  esa-reader init
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	bindGlobalFlags(cmd.PersistentFlags(), opts)
	cmd.Flags().StringVar(&opts.View, "view", "", "Start in the view whose title best matches this text")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newViewsCmd(opts))
	cmd.AddCommand(newInitCmd(opts))

	return cmd
}

func bindGlobalFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: first match of \"esa-reader config path\")")
	fs.StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace name (or set "+config.EnvWorkspace+")")
	fs.StringVar(&opts.LogFile, "log-file", envOr(EnvLogFile, ""), "Append logs to this file")
	fs.BoolVar(&opts.Debug, "debug", false, "Log at debug level")
}

// loadConfig reads and validates the config file chosen by --config or by
// discovery.
func loadConfig(opts *rootOptions) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		d, err := config.Find()
		if err != nil {
			return config.Config{}, err
		}
		if !d.Found() {
			return config.Config{}, fmt.Errorf("no config file found; run `esa-reader init` to create %s", d.Recommended)
		}
		path = d.Existing
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
