package wallclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wall-service/pkg/events"
)

const (
	SortByDate     = "date"
	SortByDateAsc  = "date-asc"
	SortByLikes    = "likes"
	SortByComments = "comments"

	DefaultPageSize = 5
	reloadTimeout   = 10 * time.Second
)

// PageLoader fetches one page of the wall
type PageLoader interface {
	ListMessages(ctx context.Context, q MessageQuery) (*MessagePage, error)
}

// Wall keeps the currently visible page and reloads it when another user
// touches a message.
type Wall struct {
	loader PageLoader

	mu       sync.RWMutex
	query    MessageQuery
	messages []Message
	total    int64
}

func NewWall(loader PageLoader) *Wall {
	return &Wall{
		loader: loader,
		query: MessageQuery{
			Page:   1,
			Limit:  DefaultPageSize,
			SortBy: SortByDate,
		},
	}
}

// HandleEvent reloads the current page for like, comment and share events
func (w *Wall) HandleEvent(ev *events.Event) {
	if !ev.Type.Reloads() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := w.Reload(ctx); err != nil {
		slog.Error("Failed to reload wall", "type", ev.Type, "username", ev.Data.Username, "error", err)
	}
}

// Reload fetches the current page again. On error the previous page is kept.
func (w *Wall) Reload(ctx context.Context) error {
	w.mu.RLock()
	q := w.query
	w.mu.RUnlock()

	page, err := w.loader.ListMessages(ctx, q)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// a filter change while the request was in flight wins
	if w.query != q {
		return nil
	}
	w.messages = page.Messages
	w.total = page.Total
	return nil
}

func (w *Wall) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return w.update(ctx, func(q *MessageQuery) { q.Page = page })
}

func (w *Wall) SetSort(ctx context.Context, sortBy string) error {
	return w.update(ctx, func(q *MessageQuery) {
		q.SortBy = sortBy
		q.Page = 1
	})
}

// SetOwnerFilter restricts the wall to own messages (true), others' (false) or all (nil)
func (w *Wall) SetOwnerFilter(ctx context.Context, mine *bool) error {
	return w.update(ctx, func(q *MessageQuery) {
		q.FilterOwner = mine
		q.Page = 1
	})
}

func (w *Wall) SetHashtagFilter(ctx context.Context, hashtag string) error {
	return w.update(ctx, func(q *MessageQuery) {
		q.FilterHashtag = hashtag
		q.Page = 1
	})
}

func (w *Wall) update(ctx context.Context, fn func(q *MessageQuery)) error {
	w.mu.Lock()
	fn(&w.query)
	w.mu.Unlock()
	return w.Reload(ctx)
}

func (w *Wall) Query() MessageQuery {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.query
}

func (w *Wall) Messages() []Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func (w *Wall) Total() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.total
}

// Bind subscribes tray and wall to stream. For every event the notification is
// shown before the page reload starts.
func Bind(stream *Stream, tray *Tray, wall *Wall) *Subscription {
	return stream.Subscribe(func(ev *events.Event) {
		if tray != nil {
			tray.HandleEvent(ev)
		}
		if wall != nil {
			wall.HandleEvent(ev)
		}
	})
}
