package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/glabrego/esa-reader/internal/esa"
	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/storage"
)

type EsaClient interface {
	ListPosts(ctx context.Context, query string, page int) (esa.PostList, error)
	GetPost(ctx context.Context, number int) (esa.Post, error)
	Star(ctx context.Context, number int) error
	Unstar(ctx context.Context, number int) error
	Watch(ctx context.Context, number int) error
	Unwatch(ctx context.Context, number int) error
}

type Repository interface {
	LoadUIPreferences(ctx context.Context) (storage.UIPreferences, error)
	SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error
	LastView(ctx context.Context, workspace string) (string, bool, error)
	SaveLastView(ctx context.Context, workspace, title string) error
}

// Content is the renderable body of a post.
type Content struct {
	Number   int
	BodyMD   string
	BodyHTML string
}

// Service binds the esa client and local storage into a reader.Repository.
// It holds no per-request state.
type Service struct {
	client    EsaClient
	repo      Repository
	workspace string
	logger    *slog.Logger
}

func NewService(client EsaClient, repo Repository, workspace string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{client: client, repo: repo, workspace: workspace, logger: logger}
}

func (s *Service) Workspace() string {
	return s.workspace
}

func (s *Service) List(ctx context.Context, query string, page int) (reader.Page, error) {
	list, err := s.client.ListPosts(ctx, query, page)
	if err != nil {
		return reader.Page{}, classify(err, "fetch posts page %d", page)
	}
	for _, skipped := range list.Skipped {
		s.logger.Warn("skipping malformed post", "query", query, "page", page, "position", skipped.Position, "error", skipped.Err)
	}

	out := reader.Page{
		Items:      make([]reader.Item, 0, len(list.Posts)),
		Page:       list.Page,
		HasNext:    list.HasNext(),
		TotalCount: list.TotalCount,
	}
	if out.HasNext {
		out.NextPage = list.NextPage
	}
	for _, post := range list.Posts {
		out.Items = append(out.Items, toItem(post))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, number int) (reader.Item, error) {
	post, err := s.client.GetPost(ctx, number)
	if err != nil {
		return reader.Item{}, classify(err, "fetch post #%d", number)
	}
	return toItem(post), nil
}

func (s *Service) Star(ctx context.Context, number int) error {
	if err := s.client.Star(ctx, number); err != nil {
		return classify(err, "star post #%d", number)
	}
	return nil
}

func (s *Service) Unstar(ctx context.Context, number int) error {
	if err := s.client.Unstar(ctx, number); err != nil {
		return classify(err, "unstar post #%d", number)
	}
	return nil
}

func (s *Service) Watch(ctx context.Context, number int) error {
	if err := s.client.Watch(ctx, number); err != nil {
		return classify(err, "watch post #%d", number)
	}
	return nil
}

func (s *Service) Unwatch(ctx context.Context, number int) error {
	if err := s.client.Unwatch(ctx, number); err != nil {
		return classify(err, "unwatch post #%d", number)
	}
	return nil
}

// PostContent fetches the body of a single post for the detail pane.
func (s *Service) PostContent(ctx context.Context, number int) (Content, error) {
	post, err := s.client.GetPost(ctx, number)
	if err != nil {
		return Content{}, classify(err, "fetch content of post #%d", number)
	}
	return Content{Number: post.Number, BodyMD: post.BodyMD, BodyHTML: post.BodyHTML}, nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (storage.UIPreferences, error) {
	if s.repo == nil {
		return storage.DefaultUIPreferences(), nil
	}
	prefs, err := s.repo.LoadUIPreferences(ctx)
	if err != nil {
		return storage.DefaultUIPreferences(), fmt.Errorf("load ui preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs storage.UIPreferences) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveUIPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

func (s *Service) LastView(ctx context.Context) (string, bool, error) {
	if s.repo == nil {
		return "", false, nil
	}
	title, ok, err := s.repo.LastView(ctx, s.workspace)
	if err != nil {
		return "", false, fmt.Errorf("load last view: %w", err)
	}
	return title, ok, nil
}

func (s *Service) SaveLastView(ctx context.Context, title string) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveLastView(ctx, s.workspace, title); err != nil {
		return fmt.Errorf("save last view: %w", err)
	}
	return nil
}

// classify tags an esa or transport error with the matching reader error kind,
// keeping the cause in the chain.
func classify(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	var statusErr *esa.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", reader.ErrTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", msg, err)
	case errors.Is(err, esa.ErrUnauthorized):
		return fmt.Errorf("%w: %s: %w", reader.ErrUnauthorized, msg, err)
	case errors.Is(err, esa.ErrForbidden):
		return fmt.Errorf("%w: %s: %w", reader.ErrForbidden, msg, err)
	case errors.Is(err, esa.ErrNotFound):
		return fmt.Errorf("%w: %s: %w", reader.ErrNotFound, msg, err)
	case errors.Is(err, esa.ErrMalformedPost), errors.Is(err, esa.ErrDecode):
		return fmt.Errorf("%w: %s: %w", reader.ErrMalformedResponse, msg, err)
	case errors.As(err, &statusErr):
		return fmt.Errorf("%s: %w", msg, err)
	default:
		return fmt.Errorf("%w: %s: %w", reader.ErrNetwork, msg, err)
	}
}

func toItem(p esa.Post) reader.Item {
	return reader.Item{
		Number:        p.Number,
		Name:          p.Name,
		FullName:      p.FullName,
		Category:      p.Category,
		Tags:          append([]string(nil), p.Tags...),
		Stars:         p.Stars,
		Watches:       p.Watches,
		Starred:       p.Starred,
		Watched:       p.Watched,
		WIP:           p.WIP,
		CommentsCount: p.Comments,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     reader.User{Name: p.CreatedBy.Name, ScreenName: p.CreatedBy.ScreenName},
		UpdatedBy:     reader.User{Name: p.UpdatedBy.Name, ScreenName: p.UpdatedBy.ScreenName},
		URL:           p.URL,
	}
}
