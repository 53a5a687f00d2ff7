// Package reader keeps the paginated post list, its selection cursor and the
// active view consistent across reloads, load-more growth and flag mutations.
// It performs no I/O itself: network work is described by Request values and
// folded back with Controller.Complete.
package reader

import (
	"context"
	"fmt"
	"time"
)

// DefaultViewTitle names the implicit view used when no views are configured.
const DefaultViewTitle = "All posts"

type User struct {
	Name       string
	ScreenName string
}

// Item is a single post as shown in the list.
type Item struct {
	Number        int
	Name          string
	FullName      string
	Category      string
	Tags          []string
	Stars         int
	Watches       int
	Starred       bool
	Watched       bool
	WIP           bool
	CommentsCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     User
	UpdatedBy     User
	URL           string
}

func (i Item) Label() string {
	return fmt.Sprintf("#%d", i.Number)
}

// Page is one server batch. HasNext reports whether NextPage is meaningful.
type Page struct {
	Items      []Item
	Page       int
	NextPage   int
	HasNext    bool
	TotalCount int
}

type View struct {
	Title string
	Query string
}

// Repository is the remote post service the controller is driven against.
// Get returns an error wrapping ErrNotFound when the post no longer exists.
type Repository interface {
	List(ctx context.Context, query string, page int) (Page, error)
	Get(ctx context.Context, number int) (Item, error)
	Watch(ctx context.Context, number int) error
	Unwatch(ctx context.Context, number int) error
	Star(ctx context.Context, number int) error
	Unstar(ctx context.Context, number int) error
}
