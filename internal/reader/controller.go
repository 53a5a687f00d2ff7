package reader

import (
	"io"
	"log/slog"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoadingMore
	StateMutating
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoadingMore:
		return "loading more"
	case StateMutating:
		return "updating"
	default:
		return "idle"
	}
}

type Direction int

const (
	Forward Direction = iota
	Backward
)

const (
	defaultTimeout         = 10 * time.Second
	defaultLoadMoreTimeout = 12 * time.Second
)

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every request issued by the controller.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
			c.loadMoreTimeout = d
		}
	}
}

func WithStartView(index int) Option {
	return func(c *Controller) {
		c.registry.SelectIndex(index)
	}
}

// Controller composes the view registry, page accumulator, selection tracker
// and mutation coordinator. It must only be used from one goroutine.
//
// At most one request is in flight. Load-more and mutations are rejected with
// ErrBusy while another request runs; view switches and reloads supersede the
// in-flight request by bumping the generation, so its result is discarded.
type Controller struct {
	registry *Registry
	acc      Accumulator
	sel      Tracker
	coord    Coordinator

	state      State
	inflight   RequestKind
	generation uint64
	loaded     bool
	shownView  View

	timeout         time.Duration
	loadMoreTimeout time.Duration
	logger          *slog.Logger
}

func New(views []View, opts ...Option) *Controller {
	c := &Controller{
		registry:        NewRegistry(views),
		timeout:         defaultTimeout,
		loadMoreTimeout: defaultLoadMoreTimeout,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Generation() uint64 {
	return c.generation
}

func (c *Controller) CurrentView() View {
	return c.registry.Current()
}

func (c *Controller) ViewIndex() int {
	return c.registry.Index()
}

func (c *Controller) Views() []View {
	return c.registry.Views()
}

func (c *Controller) Selection() Selection {
	return c.sel.Current()
}

func (c *Controller) Page() PageState {
	return c.acc.Snapshot()
}

// SelectedItem returns the highlighted item, if the cursor is on one.
func (c *Controller) SelectedItem() (Item, bool) {
	sel := c.sel.Current()
	if sel.Kind != SelectIndex {
		return Item{}, false
	}
	return c.acc.At(sel.Index)
}

// Start issues the initial load of the current view.
func (c *Controller) Start() Request {
	return c.issueLoad()
}

// SelectView cycles the registry and reloads page 1. It always supersedes.
func (c *Controller) SelectView(dir Direction) Request {
	if dir == Backward {
		c.registry.Previous()
	} else {
		c.registry.Next()
	}
	return c.issueLoad()
}

// SelectViewIndex jumps straight to the view at index i.
func (c *Controller) SelectViewIndex(i int) (Request, bool) {
	if !c.registry.SelectIndex(i) {
		return Request{}, false
	}
	return c.issueLoad(), true
}

func (c *Controller) Reload() Request {
	return c.issueLoad()
}

// ReplaceViews swaps the view set, keeping the current view by title when it
// survives, and reloads page 1.
func (c *Controller) ReplaceViews(views []View) Request {
	current := c.registry.Current().Title
	c.registry = NewRegistry(views)
	if i := c.registry.IndexOf(current); i >= 0 {
		c.registry.SelectIndex(i)
	}
	return c.issueLoad()
}

func (c *Controller) MoveSelection(dir Direction) {
	if dir == Backward {
		c.sel.MovePrevious()
		return
	}
	c.sel.MoveNext()
}

func (c *Controller) MoveSelectionBy(delta int) {
	c.sel.MoveBy(delta)
}

func (c *Controller) SelectFirst() {
	c.sel.First()
}

func (c *Controller) SelectLast() {
	c.sel.Last()
}

type ActivationKind int

const (
	ActivateNothing ActivationKind = iota
	ActivateOpen
	ActivateLoadMore
)

// Activation is the outcome of activating the current row: an item to open,
// or a load-more request to run.
type Activation struct {
	Kind    ActivationKind
	Item    Item
	Request Request
}

func (c *Controller) ActivateSelection() (Activation, error) {
	sel := c.sel.Current()
	switch sel.Kind {
	case SelectIndex:
		item, ok := c.acc.At(sel.Index)
		if !ok {
			return Activation{}, nil
		}
		return Activation{Kind: ActivateOpen, Item: item}, nil
	case SelectSentinel:
		if !c.acc.CanLoadMore() {
			return Activation{}, nil
		}
		if c.state != StateIdle {
			return Activation{}, ErrBusy
		}
		req := c.issue(RequestLoadMore, StateLoadingMore)
		req.View = c.shownView
		req.Page = c.acc.NextPage()
		req.Timeout = c.loadMoreTimeout
		return Activation{Kind: ActivateLoadMore, Request: req}, nil
	default:
		return Activation{}, nil
	}
}

// ApplyAction plans a mutation on the selected item. ok is false when the
// selection is the sentinel or empty.
func (c *Controller) ApplyAction(action Action) (Request, bool, error) {
	mut, ok := c.coord.Plan(action, c.sel.Current(), &c.acc)
	if !ok {
		return Request{}, false, nil
	}
	if c.state != StateIdle {
		return Request{}, false, ErrBusy
	}
	req := c.issue(RequestMutate, StateMutating)
	req.View = c.shownView
	req.Mutation = mut
	req.Timeout = c.timeout
	return req, true, nil
}

// Outcome summarises what a completed request changed.
type Outcome struct {
	Kind     RequestKind
	Appended int
	Item     Item
	Replaced bool
}

// Complete folds a finished request back into the controller. Results from a
// superseded generation return ErrStale and change nothing. A failed request
// returns its error and leaves the list as it was.
func (c *Controller) Complete(res Result) (Outcome, error) {
	if c.state == StateIdle || res.Generation != c.generation || res.Kind != c.inflight {
		c.logger.Debug("discarding stale response", "kind", res.Kind, "generation", res.Generation, "current", c.generation)
		return Outcome{}, ErrStale
	}
	c.state = StateIdle
	c.inflight = 0

	if res.Err != nil {
		c.logger.Warn("request failed", "kind", res.Kind, "error_kind", KindOf(res.Err), "error", res.Err)
		if res.Kind == RequestLoad && c.loaded {
			if i := c.registry.IndexOf(c.shownView.Title); i >= 0 {
				c.registry.SelectIndex(i)
			}
		}
		return Outcome{Kind: res.Kind}, res.Err
	}

	out := Outcome{Kind: res.Kind}
	switch res.Kind {
	case RequestLoad:
		c.acc.Replace(res.Page)
		c.sel.Reset(c.acc.Len(), c.acc.HasSentinel())
		c.loaded = true
		c.shownView = c.registry.Current()
	case RequestLoadMore:
		prev := c.acc.Len()
		out.Appended = c.acc.Append(res.Page)
		c.sel.AfterAppend(prev, out.Appended, c.acc.HasSentinel())
	case RequestMutate:
		item, ok := c.coord.Reconcile(&c.acc, res.Item)
		if !ok {
			c.logger.Warn("replace item: post no longer listed", "number", res.Item.Number)
			break
		}
		out.Item = item
		out.Replaced = true
	}
	return out, nil
}

func (c *Controller) issueLoad() Request {
	req := c.issue(RequestLoad, StateLoading)
	req.View = c.registry.Current()
	req.Page = 1
	req.Timeout = c.timeout
	return req
}

func (c *Controller) issue(kind RequestKind, state State) Request {
	if c.state != StateIdle {
		c.logger.Debug("superseding in-flight request", "kind", c.inflight, "generation", c.generation)
	}
	c.generation++
	c.state = state
	c.inflight = kind
	c.logger.Debug("dispatch", "kind", kind, "generation", c.generation)
	return Request{Kind: kind, Generation: c.generation}
}

type Row struct {
	Item       Item
	IsSentinel bool
}

// Projection is the read-only state the render layer draws from.
type Projection struct {
	Rows        []Row
	Highlighted int
	View        View
	ViewIndex   int
	ViewCount   int
	CurrentPage int
	HasNext     bool
	TotalCount  int
	State       State
	Loaded      bool
}

func (c *Controller) Projection() Projection {
	page := c.acc.Snapshot()
	rows := make([]Row, 0, len(page.Items)+1)
	for _, item := range page.Items {
		rows = append(rows, Row{Item: item})
	}
	if page.HasNext {
		rows = append(rows, Row{IsSentinel: true})
	}
	return Projection{
		Rows:        rows,
		Highlighted: c.sel.Current().Position(len(page.Items)),
		View:        c.registry.Current(),
		ViewIndex:   c.registry.Index(),
		ViewCount:   len(c.registry.Views()),
		CurrentPage: page.CurrentPage,
		HasNext:     page.HasNext,
		TotalCount:  page.TotalCount,
		State:       c.state,
		Loaded:      c.loaded,
	}
}
