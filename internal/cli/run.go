package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/glabrego/esa-reader/internal/app"
	"github.com/glabrego/esa-reader/internal/config"
	"github.com/glabrego/esa-reader/internal/esa"
	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/storage"
	"github.com/glabrego/esa-reader/internal/tui"
	tuitheme "github.com/glabrego/esa-reader/internal/tui/theme"
)

var errNotTerminal = errors.New("esa-reader needs an interactive terminal; use `esa-reader views --probe` for scripting")

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	logger, closeLog, err := newLogger(opts.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve(opts.Workspace)
	if err != nil {
		return err
	}
	logger = logger.With("workspace", resolved.Name)

	repo, err := storage.NewRepository(resolved.DBPath)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("storage schema: %w", err)
	}

	client := esa.NewClient(resolved.APIEndpoint, resolved.TeamName, resolved.Token, nil, esa.WithPerPage(resolved.PerPage))
	service := app.NewService(client, repo, resolved.Name, logger)

	prefs, err := service.LoadUIPreferences(ctx)
	if err != nil {
		logger.Warn("could not load UI preferences, using defaults", "error", err)
		prefs = storage.DefaultUIPreferences()
	}
	last := ""
	if opts.View == "" {
		if title, ok, err := service.LastView(ctx); err != nil {
			logger.Warn("could not load last view", "error", err)
		} else if ok {
			last = title
		}
	}
	start, err := pickStartView(resolved.Views, opts.View, last)
	if err != nil {
		return err
	}

	ctrl := reader.New(resolved.Views, reader.WithLogger(logger), reader.WithStartView(start))
	th := tuitheme.FromConfig(resolved.Theme)
	tuiOpts := tui.Options{
		Team:         resolved.TeamName,
		Workspace:    resolved.Name,
		ConfigPath:   cfg.Path,
		Theme:        &th,
		ColorProfile: termenv.EnvColorProfile(),
		Preferences:  prefs,
		Logger:       logger,
	}
	watcher, err := config.NewWatcher(cfg.Path, config.DefaultReloadDelay, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		defer watcher.Close()
		tuiOpts.Watcher = watcher
	}

	model := tui.NewModel(service, ctrl, tuiOpts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	logger.Debug("reader exited")
	return nil
}

// pickStartView chooses the initial view: the best fuzzy match for query,
// then the last view used, then the first one.
func pickStartView(views []reader.View, query, last string) (int, error) {
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	if query = strings.TrimSpace(query); query != "" {
		matches := fuzzy.Find(query, titles)
		if len(matches) == 0 {
			return 0, fmt.Errorf("no view matches %q (have %s)", query, strings.Join(titles, ", "))
		}
		return matches[0].Index, nil
	}
	for i, t := range titles {
		if t == last {
			return i, nil
		}
	}
	return 0, nil
}
