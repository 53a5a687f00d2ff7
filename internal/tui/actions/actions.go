// Package actions wraps the blocking work of the reader in tea.Cmd values.
package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/esa-reader/internal/app"
	"github.com/glabrego/esa-reader/internal/config"
	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/storage"
)

const (
	contentTimeout = 10 * time.Second
	persistTimeout = 3 * time.Second
)

type Service interface {
	reader.Repository
	PostContent(ctx context.Context, number int) (app.Content, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
	SaveLastView(ctx context.Context, title string) error
}

// RequestDoneMsg carries a finished controller request back to the UI loop.
type RequestDoneMsg struct {
	Result reader.Result
}

type ContentLoadedMsg struct {
	Seq     uint64
	Number  int
	Content app.Content
}

type ContentErrorMsg struct {
	Seq    uint64
	Number int
	Err    error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type PersistErrorMsg struct {
	What string
	Err  error
}

type ConfigChangedMsg struct{}

type ConfigReloadedMsg struct {
	Resolved config.Resolved
}

type ConfigErrorMsg struct {
	Err error
}

// ConfigWatchErrorMsg reports a watcher failure. Watching continues.
type ConfigWatchErrorMsg struct {
	Err error
}

// RunRequestCmd performs req against repo. ctx lets the caller cancel a
// superseded request; the request's own timeout is layered on top.
func RunRequestCmd(ctx context.Context, repo reader.Repository, req reader.Request) tea.Cmd {
	return func() tea.Msg {
		if ctx == nil {
			ctx = context.Background()
		}
		timeout := req.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return RequestDoneMsg{Result: req.Do(ctx, repo)}
	}
}

func LoadContentCmd(service Service, seq uint64, number int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), contentTimeout)
		defer cancel()

		content, err := service.PostContent(ctx, number)
		if err != nil {
			return ContentErrorMsg{Seq: seq, Number: number, Err: err}
		}
		return ContentLoadedMsg{Seq: seq, Number: number, Content: content}
	}
}

func SavePreferencesCmd(service Service, prefs storage.UIPreferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := service.SaveUIPreferences(ctx, prefs); err != nil {
			return PersistErrorMsg{What: "preferences", Err: err}
		}
		return nil
	}
}

func SaveLastViewCmd(service Service, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := service.SaveLastView(ctx, title); err != nil {
			return PersistErrorMsg{What: "last view", Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

// ChangeSource is the part of config.Watcher the UI listens to.
type ChangeSource interface {
	Changes() <-chan struct{}
	Errors() <-chan error
	Done() <-chan struct{}
}

// WatchConfigCmd blocks until the next change or error. It returns nil once
// the source is closed, which ends the listening loop.
func WatchConfigCmd(src ChangeSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-src.Changes():
			return ConfigChangedMsg{}
		case err := <-src.Errors():
			return ConfigWatchErrorMsg{Err: fmt.Errorf("watch config: %w", err)}
		case <-src.Done():
			return nil
		}
	}
}

// ReloadConfigCmd re-reads path and resolves the named workspace again.
func ReloadConfigCmd(path, workspace string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(path)
		if err != nil {
			return ConfigErrorMsg{Err: err}
		}
		if err := cfg.Validate(); err != nil {
			return ConfigErrorMsg{Err: err}
		}
		resolved, err := cfg.Resolve(workspace)
		if err != nil {
			return ConfigErrorMsg{Err: err}
		}
		return ConfigReloadedMsg{Resolved: resolved}
	}
}
