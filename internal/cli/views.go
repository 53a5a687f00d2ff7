package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/esa-reader/internal/app"
	"github.com/glabrego/esa-reader/internal/esa"
	"github.com/glabrego/esa-reader/internal/reader"
)

const probeConcurrency = 4

func newViewsCmd(opts *rootOptions) *cobra.Command {
	var probe bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "views",
		Short: "List the post views of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			resolved, err := cfg.Resolve(opts.Workspace)
			if err != nil {
				return err
			}
			views := reader.NewRegistry(resolved.Views).Views()
			if !probe {
				return printViews(cmd.OutOrStdout(), views, nil)
			}

			logger, closeLog, err := newLogger(opts.LogFile, opts.Debug)
			if err != nil {
				return err
			}
			defer closeLog()

			client := esa.NewClient(resolved.APIEndpoint, resolved.TeamName, resolved.Token, nil, esa.WithPerPage(resolved.PerPage))
			service := app.NewService(client, nil, resolved.Name, logger)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return printViews(cmd.OutOrStdout(), views, probeViews(ctx, service, views))
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "Fetch page 1 of every view and report its total")
	cmd.Flags().DurationVar(&timeout, "timeout", 20*time.Second, "Overall deadline for --probe")
	return cmd
}

type probeResult struct {
	Total   int
	HasNext bool
	Err     error
}

// probeViews fetches page 1 of every view with bounded concurrency. A failing
// view does not cancel the others.
func probeViews(ctx context.Context, repo reader.Repository, views []reader.View) []probeResult {
	results := make([]probeResult, len(views))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for i, v := range views {
		i, v := i, v
		g.Go(func() error {
			page, err := repo.List(ctx, v.Query, 1)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = probeResult{Err: err}
				return nil
			}
			results[i] = probeResult{Total: page.TotalCount, HasNext: page.HasNext}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printViews(w io.Writer, views []reader.View, results []probeResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if results == nil {
		fmt.Fprintln(tw, "#\tTITLE\tQUERY")
	} else {
		fmt.Fprintln(tw, "#\tTITLE\tQUERY\tPOSTS")
	}
	for i, v := range views {
		query := v.Query
		if query == "" {
			query = "(all posts)"
		}
		if results == nil {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, v.Title, query)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, v.Title, query, probeLabel(results[i]))
	}
	return tw.Flush()
}

func probeLabel(r probeResult) string {
	if r.Err != nil {
		return fmt.Sprintf("error (%s)", reader.KindOf(r.Err))
	}
	return fmt.Sprintf("%d", r.Total)
}
