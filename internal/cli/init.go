package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/glabrego/esa-reader/internal/config"
)

const defaultEndpoint = "https://api.esa.io"

type initOptions struct {
	Team     string
	Token    string
	Endpoint string
	Force    bool
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	in := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Long: strings.TrimSpace(`
Create a config file with one workspace and a set of common post views.

Missing values are prompted for. Pass --team and --token to skip the prompts.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ConfigPath
			if path == "" {
				d, err := config.Find()
				if err != nil {
					return err
				}
				path = d.Recommended
			}

			if in.Team == "" || in.Token == "" {
				if err := promptInit(in); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
						return nil
					}
					return err
				}
			}
			if err := validateTeam(in.Team); err != nil {
				return err
			}
			if err := validateEndpoint(in.Endpoint); err != nil {
				return err
			}

			endpoint := strings.TrimRight(strings.TrimSpace(in.Endpoint), "/")
			cfg := config.Starter(strings.TrimSpace(in.Team), strings.TrimSpace(in.Token), endpoint)
			if err := config.Write(path, cfg, in.Force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Team, "team", "", "esa team name (the <team> in <team>.esa.io)")
	cmd.Flags().StringVar(&in.Token, "token", "", "Personal access token")
	cmd.Flags().StringVar(&in.Endpoint, "endpoint", defaultEndpoint, "API endpoint")
	cmd.Flags().BoolVar(&in.Force, "force", false, "Overwrite an existing config file")
	return cmd
}

func promptInit(in *initOptions) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Team name").
				Placeholder("docs").
				Value(&in.Team).
				Validate(validateTeam),
			huh.NewInput().
				Title("Access token").
				EchoMode(huh.EchoModePassword).
				Value(&in.Token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("API endpoint").
				Value(&in.Endpoint).
				Validate(validateEndpoint),
		),
	).WithTheme(huh.ThemeCatppuccin())
	return form.Run()
}

func validateTeam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("team name is required")
	}
	if strings.ContainsAny(s, " /.") {
		return fmt.Errorf("team name %q should be the bare subdomain, e.g. docs", s)
	}
	return nil
}

func validateEndpoint(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint %q must be an http(s) URL", s)
	}
	return nil
}
