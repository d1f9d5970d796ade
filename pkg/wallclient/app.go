package wallclient

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type Config struct {
	// APIBaseURL is the REST root, e.g. http://localhost:8080/api/v1
	APIBaseURL string
	// WSEndpoint is the hub URL, e.g. ws://localhost:8080/api/v1/ws
	WSEndpoint    string
	DisplayWindow time.Duration
	HTTPClient    *http.Client
	Dialer        Dialer
	Store         IdentityStore
	OnStateChange func(State)
}

// App wires the REST client, the push channel and the local views together.
// Every successful mutation is announced to the other users.
type App struct {
	api     *APIClient
	stream  *Stream
	session *Session
	tray    *Tray
	wall    *Wall
	store   IdentityStore
	sub     *Subscription
}

func NewApp(cfg Config) *App {
	store := cfg.Store
	if store == nil {
		store = NewMemoryIdentityStore()
	}

	api := NewAPIClient(cfg.APIBaseURL, cfg.HTTPClient)
	stream := NewStream(0)
	tray := NewTray(cfg.DisplayWindow)
	wall := NewWall(api)

	app := &App{
		api:    api,
		stream: stream,
		session: NewSession(cfg.WSEndpoint, stream, SessionOptions{
			Dialer:        cfg.Dialer,
			OnStateChange: cfg.OnStateChange,
		}),
		tray:  tray,
		wall:  wall,
		store: store,
	}
	app.sub = Bind(stream, tray, wall)
	return app
}

func (a *App) API() *APIClient { return a.api }

func (a *App) Session() *Session { return a.session }

func (a *App) Stream() *Stream { return a.stream }

func (a *App) Tray() *Tray { return a.tray }

func (a *App) Wall() *Wall { return a.wall }

// Login authenticates, persists the identity and opens the push channel.
// A failing channel does not fail the login.
func (a *App) Login(ctx context.Context, mail, password string) (*Identity, error) {
	result, err := a.api.Login(ctx, mail, password)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		UserID:    strconv.FormatUint(uint64(result.User.ID), 10),
		Username:  result.User.Username,
		Token:     result.Token,
		LastLogin: time.Now().UTC(),
	}
	if err := a.store.Save(id); err != nil {
		slog.Warn("Failed to persist identity", "error", err)
	}

	if err := a.session.Connect(ctx, *id); err != nil {
		slog.Error("Failed to open wall channel", "userID", id.UserID, "error", err)
	}
	a.reload(ctx)
	return id, nil
}

// Restore resumes a stored identity, see Restore
func (a *App) Restore(ctx context.Context) (*Identity, error) {
	id, err := Restore(ctx, a.store, a.session)
	if err != nil || id == nil {
		return nil, err
	}
	a.api.SetToken(id.Token)
	a.reload(ctx)
	return id, nil
}

// Logout announces the logout, closes the channel and forgets the identity
func (a *App) Logout(ctx context.Context) error {
	var errs []error
	if err := a.session.Disconnect(); err != nil {
		errs = append(errs, err)
	}
	if err := a.api.Logout(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Clear(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) Like(ctx context.Context, messageID string) error {
	if _, err := a.api.LikeMessage(ctx, messageID); err != nil {
		return err
	}
	a.announce(a.session.NotifyLike(messageID))
	a.reload(ctx)
	return nil
}

func (a *App) Comment(ctx context.Context, messageID, text string) error {
	if _, err := a.api.CommentMessage(ctx, messageID, text); err != nil {
		return err
	}
	a.announce(a.session.NotifyComment(messageID, text))
	a.reload(ctx)
	return nil
}

func (a *App) Share(ctx context.Context, messageID, body string) error {
	if _, err := a.api.ShareMessage(ctx, messageID, body); err != nil {
		return err
	}
	a.announce(a.session.NotifyShare(messageID))
	a.reload(ctx)
	return nil
}

// Close disconnects and stops the background goroutines. The stored identity is kept.
func (a *App) Close() {
	a.sub.Unsubscribe()
	a.session.Disconnect()
	a.tray.Close()
	a.stream.Close()
}

func (a *App) announce(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrNotConnected) {
		slog.Warn("Action not announced, wall channel is not open")
		return
	}
	slog.Error("Failed to announce action", "error", err)
}

func (a *App) reload(ctx context.Context) {
	if err := a.wall.Reload(ctx); err != nil {
		slog.Error("Failed to load wall", "error", err)
	}
}
