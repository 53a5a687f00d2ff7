package reader

import (
	"context"
	"fmt"
)

// Action is an absolute flag change; star and unstar are separate calls, never a toggle.
type Action int

const (
	ActionWatch Action = iota + 1
	ActionUnwatch
	ActionStar
	ActionUnstar
)

func (a Action) String() string {
	switch a {
	case ActionWatch:
		return "watch"
	case ActionUnwatch:
		return "unwatch"
	case ActionStar:
		return "star"
	case ActionUnstar:
		return "unstar"
	default:
		return "unknown"
	}
}

// Past is the status-line wording for a completed action.
func (a Action) Past() string {
	switch a {
	case ActionWatch:
		return "Watching"
	case ActionUnwatch:
		return "Stopped watching"
	case ActionStar:
		return "Starred"
	case ActionUnstar:
		return "Unstarred"
	default:
		return "Updated"
	}
}

type MutationRequest struct {
	Number int
	Action Action
}

// Coordinator resolves mutations against the current selection and reconciles
// the refetched item afterward.
type Coordinator struct{}

// Plan returns false when the selection does not resolve to a concrete item.
func (Coordinator) Plan(action Action, sel Selection, acc *Accumulator) (MutationRequest, bool) {
	if sel.Kind != SelectIndex {
		return MutationRequest{}, false
	}
	item, ok := acc.At(sel.Index)
	if !ok {
		return MutationRequest{}, false
	}
	return MutationRequest{Number: item.Number, Action: action}, true
}

// Execute issues the action and then one single-item refetch. The first error aborts.
func (Coordinator) Execute(ctx context.Context, repo Repository, req MutationRequest) (Item, error) {
	var err error
	switch req.Action {
	case ActionWatch:
		err = repo.Watch(ctx, req.Number)
	case ActionUnwatch:
		err = repo.Unwatch(ctx, req.Number)
	case ActionStar:
		err = repo.Star(ctx, req.Number)
	case ActionUnstar:
		err = repo.Unstar(ctx, req.Number)
	default:
		return Item{}, fmt.Errorf("unknown action %d", req.Action)
	}
	if err != nil {
		return Item{}, fmt.Errorf("%s #%d: %w", req.Action, req.Number, err)
	}
	item, err := repo.Get(ctx, req.Number)
	if err != nil {
		return Item{}, fmt.Errorf("refetch #%d after %s: %w", req.Number, req.Action, err)
	}
	return item, nil
}

// Reconcile copies the flag and counter fields of refreshed onto the loaded item.
// Nothing else about the item, the list length or pagination changes.
func (Coordinator) Reconcile(acc *Accumulator, refreshed Item) (Item, bool) {
	i := acc.indexOf(refreshed.Number)
	if i < 0 {
		return Item{}, false
	}
	item := acc.items[i]
	item.Starred = refreshed.Starred
	item.Stars = refreshed.Stars
	item.Watched = refreshed.Watched
	item.Watches = refreshed.Watches
	acc.ReplaceItem(item)
	return item, true
}
