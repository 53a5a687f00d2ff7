package reader

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type RequestKind int

const (
	RequestLoad RequestKind = iota + 1
	RequestLoadMore
	RequestMutate
)

func (k RequestKind) String() string {
	switch k {
	case RequestLoad:
		return "load"
	case RequestLoadMore:
		return "load-more"
	case RequestMutate:
		return "mutate"
	default:
		return "none"
	}
}

// Request describes one network operation issued by the controller. It is
// tagged with the generation it was issued under.
type Request struct {
	Kind       RequestKind
	Generation uint64
	View       View
	Page       int
	Mutation   MutationRequest
	Timeout    time.Duration
}

// Result is what Request.Do produces and what Controller.Complete consumes.
type Result struct {
	Kind       RequestKind
	Generation uint64
	Page       Page
	Item       Item
	Mutation   MutationRequest
	Duration   time.Duration
	Err        error
}

// Do performs the request against repo. It is safe to call off the UI goroutine;
// it touches no controller state.
func (r Request) Do(ctx context.Context, repo Repository) Result {
	start := time.Now()
	res := Result{Kind: r.Kind, Generation: r.Generation, Mutation: r.Mutation}
	switch r.Kind {
	case RequestLoad, RequestLoadMore:
		page, err := repo.List(ctx, r.View.Query, r.Page)
		if err != nil {
			res.Err = fmt.Errorf("list %q page %d: %w", r.View.Title, r.Page, err)
			break
		}
		if page.Page == 0 {
			page.Page = r.Page
		}
		res.Page = page
	case RequestMutate:
		item, err := Coordinator{}.Execute(ctx, repo, r.Mutation)
		if err != nil {
			res.Err = err
			break
		}
		res.Item = item
	default:
		res.Err = fmt.Errorf("unknown request kind %d", r.Kind)
	}
	if res.Err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(res.Err, ErrTimeout) {
		res.Err = fmt.Errorf("%w: %w", ErrTimeout, res.Err)
	}
	res.Duration = time.Since(start)
	return res
}
