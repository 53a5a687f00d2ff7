package reader

import (
	"context"
	"fmt"
	"time"
)

type fakeView struct {
	items   []Item
	perPage int
}

type fakeRepo struct {
	views map[string]*fakeView
	posts map[int]Item

	listErr   error
	getErr    error
	mutateErr error

	listCalls   []string
	mutateCalls []string
	getCalls    []int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		views: make(map[string]*fakeView),
		posts: make(map[int]Item),
	}
}

// addView registers count posts under query, numbered from first.
func (f *fakeRepo) addView(query string, first, count, perPage int) {
	v := &fakeView{perPage: perPage}
	for i := 0; i < count; i++ {
		n := first + i
		item := Item{
			Number:    n,
			Name:      fmt.Sprintf("post %d", n),
			FullName:  fmt.Sprintf("dev/post %d", n),
			Stars:     n % 5,
			Watches:   1,
			UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(n) * time.Hour),
			URL:       fmt.Sprintf("https://docs.esa.io/posts/%d", n),
		}
		v.items = append(v.items, item)
		f.posts[n] = item
	}
	f.views[query] = v
}

func (f *fakeRepo) List(_ context.Context, query string, page int) (Page, error) {
	f.listCalls = append(f.listCalls, fmt.Sprintf("%s@%d", query, page))
	if f.listErr != nil {
		return Page{}, f.listErr
	}
	v, ok := f.views[query]
	if !ok {
		return Page{Page: page}, nil
	}
	start := (page - 1) * v.perPage
	end := start + v.perPage
	if start > len(v.items) {
		start = len(v.items)
	}
	if end > len(v.items) {
		end = len(v.items)
	}
	out := Page{
		Items:      make([]Item, 0, end-start),
		Page:       page,
		TotalCount: len(v.items),
	}
	for _, item := range v.items[start:end] {
		out.Items = append(out.Items, f.posts[item.Number])
	}
	if end < len(v.items) {
		out.HasNext = true
		out.NextPage = page + 1
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, number int) (Item, error) {
	f.getCalls = append(f.getCalls, number)
	if f.getErr != nil {
		return Item{}, f.getErr
	}
	item, ok := f.posts[number]
	if !ok {
		return Item{}, fmt.Errorf("get #%d: %w", number, ErrNotFound)
	}
	return item, nil
}

func (f *fakeRepo) mutate(action string, number int, apply func(*Item)) error {
	f.mutateCalls = append(f.mutateCalls, fmt.Sprintf("%s#%d", action, number))
	if f.mutateErr != nil {
		return f.mutateErr
	}
	item, ok := f.posts[number]
	if !ok {
		return fmt.Errorf("%s #%d: %w", action, number, ErrNotFound)
	}
	apply(&item)
	f.posts[number] = item
	return nil
}

func (f *fakeRepo) Watch(_ context.Context, number int) error {
	return f.mutate("watch", number, func(it *Item) {
		if !it.Watched {
			it.Watched = true
			it.Watches++
		}
	})
}

func (f *fakeRepo) Unwatch(_ context.Context, number int) error {
	return f.mutate("unwatch", number, func(it *Item) {
		if it.Watched {
			it.Watched = false
			it.Watches--
		}
	})
}

func (f *fakeRepo) Star(_ context.Context, number int) error {
	return f.mutate("star", number, func(it *Item) {
		if !it.Starred {
			it.Starred = true
			it.Stars++
		}
	})
}

func (f *fakeRepo) Unstar(_ context.Context, number int) error {
	return f.mutate("unstar", number, func(it *Item) {
		if it.Starred {
			it.Starred = false
			it.Stars--
		}
	})
}
