package esa

import (
	"fmt"
	"time"
)

// Post is a validated esa post. Required wire fields are guaranteed present.
type Post struct {
	Number    int
	Name      string
	FullName  string
	Category  string
	Tags      []string
	WIP       bool
	BodyMD    string
	BodyHTML  string
	Stars     int
	Watches   int
	Comments  int
	Starred   bool
	Watched   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy User
	UpdatedBy User
	URL       string
}

type User struct {
	Name       string
	ScreenName string
}

type PostList struct {
	Posts      []Post
	Page       int
	NextPage   int
	TotalCount int
	Skipped    []SkippedPost
}

// HasNext reports whether the server returned a next_page.
func (l PostList) HasNext() bool {
	return l.NextPage > 0
}

type SkippedPost struct {
	Position int
	Err      error
}

type postListResponse struct {
	Posts      []wirePost `json:"posts"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	NextPage   int        `json:"next_page"`
	TotalCount int        `json:"total_count"`
}

type wireUser struct {
	Name       *string `json:"name"`
	ScreenName *string `json:"screen_name"`
}

type wirePost struct {
	Number          *int      `json:"number"`
	Name            *string   `json:"name"`
	FullName        *string   `json:"full_name"`
	Category        *string   `json:"category"`
	Tags            []string  `json:"tags"`
	WIP             *bool     `json:"wip"`
	BodyMD          *string   `json:"body_md"`
	BodyHTML        *string   `json:"body_html"`
	CreatedAt       *string   `json:"created_at"`
	UpdatedAt       *string   `json:"updated_at"`
	URL             *string   `json:"url"`
	CreatedBy       *wireUser `json:"created_by"`
	UpdatedBy       *wireUser `json:"updated_by"`
	StargazersCount *int      `json:"stargazers_count"`
	WatchersCount   *int      `json:"watchers_count"`
	CommentsCount   *int      `json:"comments_count"`
	Star            *bool     `json:"star"`
	Watch           *bool     `json:"watch"`
}

func (w wirePost) convert() (Post, error) {
	missing := ""
	switch {
	case w.Number == nil:
		missing = "number"
	case w.CreatedAt == nil:
		missing = "created_at"
	case w.UpdatedAt == nil:
		missing = "updated_at"
	case w.CreatedBy == nil:
		missing = "created_by"
	case w.UpdatedBy == nil:
		missing = "updated_by"
	case w.URL == nil || *w.URL == "":
		missing = "url"
	}
	if missing != "" {
		return Post{}, fmt.Errorf("%w: missing %s", ErrMalformedPost, missing)
	}

	createdAt, err := time.Parse(time.RFC3339, *w.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("%w: post #%d created_at: %v", ErrMalformedPost, *w.Number, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, *w.UpdatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("%w: post #%d updated_at: %v", ErrMalformedPost, *w.Number, err)
	}

	name := stringOr(w.Name, "(no title)")
	return Post{
		Number:    *w.Number,
		Name:      name,
		FullName:  stringOr(w.FullName, name),
		Category:  stringOr(w.Category, ""),
		Tags:      append([]string(nil), w.Tags...),
		WIP:       boolOr(w.WIP),
		BodyMD:    stringOr(w.BodyMD, ""),
		BodyHTML:  stringOr(w.BodyHTML, ""),
		Stars:     countOf(w.StargazersCount),
		Watches:   countOf(w.WatchersCount),
		Comments:  countOf(w.CommentsCount),
		Starred:   boolOr(w.Star),
		Watched:   boolOr(w.Watch),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
		CreatedBy: w.CreatedBy.convert(),
		UpdatedBy: w.UpdatedBy.convert(),
		URL:       *w.URL,
	}, nil
}

func (u *wireUser) convert() User {
	return User{
		Name:       stringOr(u.Name, "(no name)"),
		ScreenName: stringOr(u.ScreenName, "(no id)"),
	}
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

func countOf(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}
