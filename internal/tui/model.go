// Package tui is the bubbletea front end: a post list driven by
// reader.Controller beside a detail pane rendering the selected post.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"

	"github.com/glabrego/esa-reader/internal/app"
	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/render/markdown"
	"github.com/glabrego/esa-reader/internal/storage"
	"github.com/glabrego/esa-reader/internal/tui/actions"
	"github.com/glabrego/esa-reader/internal/tui/platform"
	"github.com/glabrego/esa-reader/internal/tui/state"
	tuitheme "github.com/glabrego/esa-reader/internal/tui/theme"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	splitStep     = 0.05
	statusTTL     = 3 * time.Second
)

type clearStatusMsg struct {
	id int
}

// inflight is shared by every copy of the model so the running request can be
// canceled from whichever copy handles the next dispatch.
type inflight struct {
	cancel   context.CancelFunc
	spinning bool
}

// Options carries everything the model needs besides the service and the
// controller. Zero values are usable.
type Options struct {
	Team         string
	Workspace    string
	ConfigPath   string
	Watcher      actions.ChangeSource
	Theme        *tuitheme.Theme
	ColorProfile termenv.Profile
	Preferences  storage.UIPreferences
	Logger       *slog.Logger
}

type Model struct {
	service  actions.Service
	ctrl     *reader.Controller
	inflight *inflight

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	detail  viewport.Model
	picker  textinput.Model
	picking bool

	theme   tuitheme.Theme
	profile termenv.Profile
	md      *markdown.Renderer
	logger  *slog.Logger

	team       string
	workspace  string
	configPath string
	watcher    actions.ChangeSource

	prefs         storage.UIPreferences
	lastSavedView string

	focusDetail    bool
	hasDetail      bool
	detailItem     reader.Item
	content        app.Content
	contentErr     error
	contentLoading bool
	contentSeq     uint64

	width    int
	height   int
	status   string
	statusID int
	err      error

	nowFn     func() time.Time
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service actions.Service, ctrl *reader.Controller, opts Options) Model {
	th := tuitheme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	prefs := opts.Preferences
	if prefs.SplitRatio == 0 {
		prefs = storage.DefaultUIPreferences()
	}
	picker := textinput.New()
	picker.Prompt = "view> "
	picker.Placeholder = "type to filter views"
	picker.CharLimit = 64

	m := Model{
		service:    service,
		ctrl:       ctrl,
		inflight:   &inflight{},
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(th.StateLoad)),
		detail:     viewport.New(0, 0),
		picker:     picker,
		theme:      th,
		profile:    opts.ColorProfile,
		logger:     logger,
		team:       opts.Team,
		workspace:  opts.Workspace,
		configPath: opts.ConfigPath,
		watcher:    opts.Watcher,
		prefs:      prefs,
		nowFn:      time.Now,
		openURLFn:  platform.OpenURLInBrowser,
		copyURLFn:  platform.CopyURLToClipboard,
	}
	m.md = markdown.NewRenderer(th.GlamourStyle(), m.profile)
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	return tea.Batch(m.dispatch(m.ctrl.Start()), actions.WatchConfigCmd(m.watcher))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshDetail()
		return m, nil
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	case actions.RequestDoneMsg:
		return m.completeRequest(msg.Result)
	case actions.ContentLoadedMsg:
		if msg.Seq != m.contentSeq {
			return m, nil
		}
		m.contentLoading = false
		m.content = msg.Content
		m.contentErr = nil
		m.refreshDetail()
		m.detail.GotoTop()
		return m, nil
	case actions.ContentErrorMsg:
		if msg.Seq != m.contentSeq {
			return m, nil
		}
		m.contentLoading = false
		m.contentErr = msg.Err
		m.refreshDetail()
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m.withStatus(msg.Status)
	case actions.OpenURLErrorMsg:
		m.err = nil
		return m.withStatus(msg.Err.Error())
	case actions.PersistErrorMsg:
		m.logger.Warn("persist failed", "what", msg.What, "error", msg.Err)
		return m.withStatus("Could not save " + msg.What)
	case actions.ConfigChangedMsg:
		m.logger.Info("config changed, reloading", "path", m.configPath)
		return m, tea.Batch(actions.ReloadConfigCmd(m.configPath, m.workspace), actions.WatchConfigCmd(m.watcher))
	case actions.ConfigReloadedMsg:
		th := tuitheme.FromConfig(msg.Resolved.Theme)
		m.theme = th
		m.spinner.Style = th.StateLoad
		m.md = markdown.NewRenderer(th.GlamourStyle(), m.profile)
		m.refreshDetail()
		m.focusDetail = false
		m.logger.Info("config reloaded", "views", len(msg.Resolved.Views))
		status := m.setStatus("Config reloaded")
		return m, tea.Batch(m.dispatch(m.ctrl.ReplaceViews(msg.Resolved.Views)), status)
	case actions.ConfigErrorMsg:
		m.logger.Warn("config reload rejected", "error", msg.Err)
		return m.withStatus("Config not reloaded: " + msg.Err.Error())
	case actions.ConfigWatchErrorMsg:
		m.logger.Warn("config watch error", "error", msg.Err)
		return m, actions.WatchConfigCmd(m.watcher)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case spinner.TickMsg:
		if m.ctrl == nil || m.ctrl.State() == reader.StateIdle {
			m.inflight.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.inflight.cancel != nil {
			m.inflight.cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.HelpBar):
		m.prefs.ShowHelpBar = !m.prefs.ShowHelpBar
		m.layout()
		return m, m.savePreferences()
	case key.Matches(msg, m.keys.Relative):
		m.prefs.RelativeTime = !m.prefs.RelativeTime
		label := "dates"
		if m.prefs.RelativeTime {
			label = "relative"
		}
		status := m.setStatus("Time format: " + label)
		return m, tea.Batch(m.savePreferences(), status)
	case key.Matches(msg, m.keys.Shrink), key.Matches(msg, m.keys.Grow):
		delta := splitStep
		if key.Matches(msg, m.keys.Shrink) {
			delta = -splitStep
		}
		m.prefs.SplitRatio = state.NudgeRatio(m.prefs.SplitRatio, delta, storage.MinSplitRatio, storage.MaxSplitRatio)
		m.layout()
		m.refreshDetail()
		return m, m.savePreferences()
	case key.Matches(msg, m.keys.Focus):
		if m.hasDetail {
			m.focusDetail = !m.focusDetail
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevView):
		m.focusDetail = false
		return m, m.dispatch(m.ctrl.SelectView(reader.Backward))
	case key.Matches(msg, m.keys.NextView):
		m.focusDetail = false
		return m, m.dispatch(m.ctrl.SelectView(reader.Forward))
	case key.Matches(msg, m.keys.PickView):
		m.picking = true
		m.picker.SetValue("")
		return m, m.picker.Focus()
	case key.Matches(msg, m.keys.Reload):
		m.err = nil
		return m, m.dispatch(m.ctrl.Reload())
	case key.Matches(msg, m.keys.Watch):
		return m.applyAction(reader.ActionWatch)
	case key.Matches(msg, m.keys.Unwatch):
		return m.applyAction(reader.ActionUnwatch)
	case key.Matches(msg, m.keys.Star):
		return m.applyAction(reader.ActionStar)
	case key.Matches(msg, m.keys.Unstar):
		return m.applyAction(reader.ActionUnstar)
	case key.Matches(msg, m.keys.Open):
		return m.openCurrentURL()
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrentURL()
	}

	if m.focusDetail {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.focusDetail = false
		case key.Matches(msg, m.keys.Up):
			m.detail.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.detail.LineDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.detail.ViewUp()
		case key.Matches(msg, m.keys.PageDown):
			m.detail.ViewDown()
		case key.Matches(msg, m.keys.Top):
			m.detail.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.detail.GotoBottom()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.ctrl.MoveSelection(reader.Backward)
	case key.Matches(msg, m.keys.Down):
		m.ctrl.MoveSelection(reader.Forward)
	case key.Matches(msg, m.keys.Top):
		m.ctrl.SelectFirst()
	case key.Matches(msg, m.keys.Bottom):
		m.ctrl.SelectLast()
	case key.Matches(msg, m.keys.PageUp):
		m.ctrl.MoveSelectionBy(-state.PageStep(m.bodyHeight(), m.status != ""))
	case key.Matches(msg, m.keys.PageDown):
		m.ctrl.MoveSelectionBy(state.PageStep(m.bodyHeight(), m.status != ""))
	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.picking = false
		m.picker.Blur()
		return m, nil
	case tea.KeyEnter:
		m.picking = false
		m.picker.Blur()
		matches := m.viewMatches()
		if len(matches) == 0 {
			return m.withStatus("No view matches " + fmt.Sprintf("%q", m.picker.Value()))
		}
		req, ok := m.ctrl.SelectViewIndex(matches[0].Index)
		if !ok {
			return m, nil
		}
		m.focusDetail = false
		return m, m.dispatch(req)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// viewMatches ranks view titles against the picker query. An empty query
// matches nothing.
func (m Model) viewMatches() fuzzy.Matches {
	query := strings.TrimSpace(m.picker.Value())
	if query == "" {
		return nil
	}
	views := m.ctrl.Views()
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	return fuzzy.Find(query, titles)
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	act, err := m.ctrl.ActivateSelection()
	if err != nil {
		m.err = err
		return m, nil
	}
	switch act.Kind {
	case reader.ActivateOpen:
		return m.openDetail(act.Item)
	case reader.ActivateLoadMore:
		m.err = nil
		return m, m.dispatch(act.Request)
	}
	return m, nil
}

func (m Model) applyAction(action reader.Action) (tea.Model, tea.Cmd) {
	req, ok, err := m.ctrl.ApplyAction(action)
	if err != nil {
		m.err = err
		return m, nil
	}
	if !ok {
		return m, nil
	}
	m.err = nil
	return m, m.dispatch(req)
}

func (m Model) openDetail(item reader.Item) (tea.Model, tea.Cmd) {
	m.hasDetail = true
	m.focusDetail = true
	m.detailItem = item
	m.content = app.Content{}
	m.contentErr = nil
	m.contentLoading = true
	m.contentSeq++
	m.refreshDetail()
	m.detail.GotoTop()
	if m.service == nil {
		return m, nil
	}
	return m, actions.LoadContentCmd(m.service, m.contentSeq, item.Number)
}

func (m Model) completeRequest(res reader.Result) (tea.Model, tea.Cmd) {
	out, err := m.ctrl.Complete(res)
	if errors.Is(err, reader.ErrStale) {
		return m, nil
	}
	if err != nil {
		m.status = ""
		m.err = err
		return m, nil
	}
	m.err = nil

	switch out.Kind {
	case reader.RequestLoad:
		current := m.ctrl.CurrentView().Title
		if current != m.lastSavedView && m.service != nil {
			m.lastSavedView = current
			return m, actions.SaveLastViewCmd(m.service, current)
		}
	case reader.RequestLoadMore:
		if out.Appended == 0 {
			return m.withStatus("No new posts on this page")
		}
		return m.withStatus(fmt.Sprintf("Loaded page %d", m.ctrl.Page().CurrentPage))
	case reader.RequestMutate:
		if !out.Replaced {
			return m.withStatus(fmt.Sprintf("%s #%d, but it is no longer listed", res.Mutation.Action.Past(), res.Mutation.Number))
		}
		if m.hasDetail && m.detailItem.Number == out.Item.Number {
			m.detailItem = out.Item
			m.refreshDetail()
		}
		return m.withStatus(fmt.Sprintf("%s %s", res.Mutation.Action.Past(), out.Item.Label()))
	}
	return m, nil
}

// dispatch cancels whatever request is still running and starts req.
func (m Model) dispatch(req reader.Request) tea.Cmd {
	if m.inflight.cancel != nil {
		m.inflight.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.inflight.cancel = cancel
	cmds := []tea.Cmd{actions.RunRequestCmd(ctx, m.service, req)}
	if !m.inflight.spinning {
		m.inflight.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) currentItem() (reader.Item, bool) {
	if m.focusDetail && m.hasDetail {
		return m.detailItem, true
	}
	return m.ctrl.SelectedItem()
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	u, err := platform.ValidateURL(item.URL)
	if err != nil {
		return m.withStatus(err.Error())
	}
	return m, actions.OpenURLCmd(u, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	u, err := platform.ValidateURL(item.URL)
	if err != nil {
		return m.withStatus(err.Error())
	}
	return m, actions.CopyURLCmd(u, m.copyURLFn)
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusID++
	return clearStatusCmd(m.statusID, statusTTL)
}

func (m Model) withStatus(s string) (tea.Model, tea.Cmd) {
	cmd := m.setStatus(s)
	return m, cmd
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) savePreferences() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return actions.SavePreferencesCmd(m.service, m.prefs)
}

// Preferences returns the UI preferences as currently toggled.
func (m Model) Preferences() storage.UIPreferences {
	return m.prefs
}

// SetURLHandlers replaces the browser and clipboard hooks.
func (m *Model) SetURLHandlers(openFn, copyFn func(string) error) {
	m.openURLFn = openFn
	m.copyURLFn = copyFn
}
