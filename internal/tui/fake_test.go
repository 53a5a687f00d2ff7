package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glabrego/esa-reader/internal/app"
	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/storage"
)

type fakeService struct {
	mu       sync.Mutex
	views    map[string][]reader.Item
	perPage  int
	contents map[int]app.Content
	listErr  error

	listCalls   []string
	mutateCalls []string
	savedPrefs  []storage.UIPreferences
	savedViews  []string
}

func newFakeService(perPage int) *fakeService {
	return &fakeService{
		views:    make(map[string][]reader.Item),
		perPage:  perPage,
		contents: make(map[int]app.Content),
	}
}

func (f *fakeService) addPosts(query string, numbers ...int) {
	for _, n := range numbers {
		f.views[query] = append(f.views[query], reader.Item{
			Number:    n,
			Name:      fmt.Sprintf("Post %d", n),
			FullName:  fmt.Sprintf("dev/Post %d", n),
			Stars:     1,
			UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			URL:       fmt.Sprintf("https://docs.esa.io/posts/%d", n),
		})
	}
}

func (f *fakeService) List(_ context.Context, query string, page int) (reader.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, fmt.Sprintf("%s@%d", query, page))
	if f.listErr != nil {
		return reader.Page{}, f.listErr
	}
	items := f.views[query]
	start := min((page-1)*f.perPage, len(items))
	end := min(start+f.perPage, len(items))
	out := reader.Page{Items: append([]reader.Item(nil), items[start:end]...), Page: page, TotalCount: len(items)}
	if end < len(items) {
		out.HasNext = true
		out.NextPage = page + 1
	}
	return out, nil
}

func (f *fakeService) find(number int) (reader.Item, bool) {
	for _, items := range f.views {
		for _, it := range items {
			if it.Number == number {
				return it, true
			}
		}
	}
	return reader.Item{}, false
}

func (f *fakeService) Get(_ context.Context, number int) (reader.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.find(number)
	if !ok {
		return reader.Item{}, fmt.Errorf("get #%d: %w", number, reader.ErrNotFound)
	}
	return item, nil
}

func (f *fakeService) update(action string, number int, apply func(*reader.Item)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutateCalls = append(f.mutateCalls, fmt.Sprintf("%s#%d", action, number))
	for q, items := range f.views {
		for i := range items {
			if items[i].Number == number {
				apply(&f.views[q][i])
			}
		}
	}
	return nil
}

func (f *fakeService) Star(_ context.Context, n int) error {
	return f.update("star", n, func(it *reader.Item) { it.Starred = true; it.Stars++ })
}

func (f *fakeService) Unstar(_ context.Context, n int) error {
	return f.update("unstar", n, func(it *reader.Item) { it.Starred = false; it.Stars-- })
}

func (f *fakeService) Watch(_ context.Context, n int) error {
	return f.update("watch", n, func(it *reader.Item) { it.Watched = true; it.Watches++ })
}

func (f *fakeService) Unwatch(_ context.Context, n int) error {
	return f.update("unwatch", n, func(it *reader.Item) { it.Watched = false; it.Watches-- })
}

func (f *fakeService) PostContent(_ context.Context, number int) (app.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contents[number]; ok {
		return c, nil
	}
	return app.Content{Number: number}, nil
}

func (f *fakeService) SaveUIPreferences(_ context.Context, prefs storage.UIPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedPrefs = append(f.savedPrefs, prefs)
	return nil
}

func (f *fakeService) SaveLastView(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedViews = append(f.savedViews, title)
	return nil
}
