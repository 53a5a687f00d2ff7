package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glabrego/esa-reader/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where the config file is looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.ConfigPath != "" {
				fmt.Fprintf(out, "%s (from --config)\n", opts.ConfigPath)
				return nil
			}
			d, err := config.Find()
			if err != nil {
				return err
			}
			for _, p := range d.Candidates {
				var marks string
				if p == d.Recommended {
					marks += " (recommended)"
				}
				if p == d.Existing {
					marks += " (in use)"
				}
				fmt.Fprintf(out, "%s%s\n", p, marks)
			}
			if !d.Found() {
				fmt.Fprintln(out, "no config file found; run `esa-reader init`")
			}
			return nil
		},
	})
	return cmd
}
