package wallclient

import (
	"fmt"
	"sync"
	"time"

	"wall-service/pkg/events"
)

// DefaultDisplayWindow is how long a notification stays visible
const DefaultDisplayWindow = 5 * time.Second

const commentPreviewLength = 20

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Notification is a transient, client-local toast
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tray holds the active notifications. Each one is removed automatically once
// the display window elapses, or earlier through Dismiss.
type Tray struct {
	mu       sync.Mutex
	window   time.Duration
	nextID   int64
	items    []Notification
	timers   map[int64]*time.Timer
	onChange func([]Notification)
}

func NewTray(window time.Duration) *Tray {
	if window <= 0 {
		window = DefaultDisplayWindow
	}
	return &Tray{
		window: window,
		timers: make(map[int64]*time.Timer),
	}
}

// OnChange registers fn to be called with the active list after every change.
// fn runs outside the tray lock.
func (t *Tray) OnChange(fn func([]Notification)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Add appends a notification and schedules its removal
func (t *Tray) Add(message string, severity Severity) Notification {
	t.mu.Lock()
	t.nextID++
	n := Notification{
		ID:        t.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	t.items = append(t.items, n)

	id := n.ID
	t.timers[id] = time.AfterFunc(t.window, func() {
		t.remove(id)
	})
	t.mu.Unlock()

	t.changed()
	return n
}

// Dismiss removes the notification early. Reports whether it was still active.
func (t *Tray) Dismiss(id int64) bool {
	t.mu.Lock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
	}
	t.mu.Unlock()

	return t.remove(id)
}

// List returns a copy of the active notifications, oldest first
func (t *Tray) List() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notification, len(t.items))
	copy(out, t.items)
	return out
}

// HandleEvent turns a received event into a notification
func (t *Tray) HandleEvent(ev *events.Event) {
	if message, severity, ok := NotificationFor(ev); ok {
		t.Add(message, severity)
	}
}

// Close cancels every pending auto-dismiss timer and clears the tray
func (t *Tray) Close() {
	t.mu.Lock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.items = nil
	t.mu.Unlock()
}

func (t *Tray) remove(id int64) bool {
	t.mu.Lock()
	delete(t.timers, id)
	removed := false
	for i, n := range t.items {
		if n.ID == id {
			t.items = append(t.items[:i:i], t.items[i+1:]...)
			removed = true
			break
		}
	}
	t.mu.Unlock()

	if removed {
		t.changed()
	}
	return removed
}

func (t *Tray) changed() {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn(t.List())
	}
}

// NotificationFor returns the toast text for a received event
func NotificationFor(ev *events.Event) (string, Severity, bool) {
	user := ev.Data.Username
	if user == "" {
		user = events.AnonymousUser
	}

	switch ev.Type {
	case events.KindConnection:
		return fmt.Sprintf("%s just connected", user), SeverityInfo, true
	case events.KindLike:
		return fmt.Sprintf("%s liked a message", user), SeverityInfo, true
	case events.KindComment:
		return fmt.Sprintf("%s commented: %q", user, preview(ev.Data.CommentText)), SeverityInfo, true
	case events.KindShare:
		return fmt.Sprintf("%s shared a message", user), SeveritySuccess, true
	case events.KindLogout:
		return fmt.Sprintf("%s just logged out", user), SeverityWarning, true
	default:
		return "", "", false
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= commentPreviewLength {
		return text
	}
	return string(runes[:commentPreviewLength]) + "..."
}
