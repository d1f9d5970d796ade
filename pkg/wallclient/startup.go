package wallclient

import (
	"context"
	"errors"
	"log/slog"
)

// Restore reconnects a previously logged-in identity. Exactly one connection
// attempt is made; if it fails the stored identity is cleared and the client
// starts logged out. Returns nil, nil when nothing was stored.
func Restore(ctx context.Context, store IdentityStore, session *Session) (*Identity, error) {
	id, err := store.Load()
	if errors.Is(err, ErrNoIdentity) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Discarding unreadable identity", "error", err)
		return nil, errors.Join(err, store.Clear())
	}

	if err := session.Connect(ctx, *id); err != nil {
		slog.Warn("Could not restore session, logging out", "userID", id.UserID, "error", err)
		return nil, errors.Join(err, store.Clear())
	}
	return id, nil
}
