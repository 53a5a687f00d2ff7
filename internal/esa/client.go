package esa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://api.esa.io"
	DefaultQuery    = "sort:updated"
	DefaultPerPage  = 20
)

var (
	ErrUnauthorized  = errors.New("esa: unauthorized")
	ErrForbidden     = errors.New("esa: forbidden")
	ErrNotFound      = errors.New("esa: not found")
	ErrMalformedPost = errors.New("esa: malformed post")
	ErrDecode        = errors.New("esa: undecodable response")
)

// StatusError is returned for non-2xx responses without a dedicated sentinel.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("esa: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("esa: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	team    string
	token   string
	perPage int
	http    *http.Client
}

type Option func(*Client)

func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

func NewClient(endpoint, team, token string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		team:    team,
		token:   token,
		perPage: DefaultPerPage,
		http:    httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Team() string {
	return c.team
}

// ListPosts fetches one page of posts matching query. An empty query means sort:updated.
// Posts that fail conversion are reported in Skipped and left out of Posts.
func (c *Client) ListPosts(ctx context.Context, query string, page int) (PostList, error) {
	if page < 1 {
		page = 1
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}

	q := make(url.Values)
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))

	var wire postListResponse
	if err := c.do(ctx, http.MethodGet, "/posts?"+q.Encode(), &wire); err != nil {
		return PostList{}, fmt.Errorf("list posts: %w", err)
	}

	list := PostList{
		Page:       wire.Page,
		NextPage:   wire.NextPage,
		TotalCount: wire.TotalCount,
		Posts:      make([]Post, 0, len(wire.Posts)),
	}
	if list.Page == 0 {
		list.Page = page
	}
	for i, wp := range wire.Posts {
		post, err := wp.convert()
		if err != nil {
			list.Skipped = append(list.Skipped, SkippedPost{Position: i, Err: err})
			continue
		}
		list.Posts = append(list.Posts, post)
	}
	return list, nil
}

func (c *Client) GetPost(ctx context.Context, number int) (Post, error) {
	var wire wirePost
	if err := c.do(ctx, http.MethodGet, postPath(number), &wire); err != nil {
		return Post{}, fmt.Errorf("get post #%d: %w", number, err)
	}
	post, err := wire.convert()
	if err != nil {
		return Post{}, fmt.Errorf("get post #%d: %w", number, err)
	}
	return post, nil
}

func (c *Client) Star(ctx context.Context, number int) error {
	return c.flag(ctx, http.MethodPost, number, "star")
}

func (c *Client) Unstar(ctx context.Context, number int) error {
	return c.flag(ctx, http.MethodDelete, number, "star")
}

func (c *Client) Watch(ctx context.Context, number int) error {
	return c.flag(ctx, http.MethodPost, number, "watch")
}

func (c *Client) Unwatch(ctx context.Context, number int) error {
	return c.flag(ctx, http.MethodDelete, number, "watch")
}

func (c *Client) flag(ctx context.Context, method string, number int, resource string) error {
	if err := c.do(ctx, method, postPath(number)+"/"+resource, nil); err != nil {
		return fmt.Errorf("%s %s #%d: %w", strings.ToLower(method), resource, number, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := c.newRequest(ctx, method, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + "/v1/teams/" + url.PathEscape(c.team) + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func postPath(number int) string {
	return "/posts/" + strconv.Itoa(number)
}
