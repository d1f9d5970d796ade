package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"wall-service/pkg/events"
	"wall-service/pkg/wallclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryLog struct {
	mu      sync.Mutex
	queries []string
}

func (l *queryLog) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queries[len(l.queries)-1]
}

func newTestConsole(t *testing.T) (*console, *bytes.Buffer, *queryLog) {
	t.Helper()
	log := &queryLog{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		log.mu.Lock()
		log.queries = append(log.queries, r.URL.RawQuery)
		log.mu.Unlock()
		json.NewEncoder(w).Encode(wallclient.MessagePage{
			Messages: []wallclient.Message{{ID: "m1", Body: "hello #go", Date: "2024-05-17", Hour: "14:32", Likes: 2, Shared: "m0"}},
			Total:    1, Page: 1, Limit: 5,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	app := wallclient.NewApp(wallclient.Config{
		APIBaseURL:    server.URL + "/api/v1",
		WSEndpoint:    "ws://127.0.0.1:1/ws",
		DisplayWindow: time.Hour,
	})
	t.Cleanup(app.Close)

	var out bytes.Buffer
	return newConsole(app, &out), &out, log
}

func TestConsoleWallCommands(t *testing.T) {
	c, out, log := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.exec(ctx, "tag #go"))
	assert.Contains(t, log.last(), "filterHashtag=%23go")

	require.NoError(t, c.exec(ctx, "sort likes"))
	assert.Contains(t, log.last(), "sortBy=likes")

	require.NoError(t, c.exec(ctx, "mine"))
	assert.Contains(t, log.last(), "filterOwner=true")

	require.NoError(t, c.exec(ctx, "everyone"))
	assert.NotContains(t, log.last(), "filterOwner")

	assert.Contains(t, out.String(), "hello #go")
	assert.Contains(t, out.String(), "shared from m0")
}

func TestConsoleRejectsBadInput(t *testing.T) {
	c, _, _ := newTestConsole(t)
	ctx := context.Background()

	assert.Error(t, c.exec(ctx, "page two"))
	assert.Error(t, c.exec(ctx, "comment m1"))
	assert.Error(t, c.exec(ctx, "like"))
	assert.Error(t, c.exec(ctx, "dance"))
	assert.NoError(t, c.exec(ctx, "   "))
	assert.ErrorIs(t, c.exec(ctx, "quit"), errQuit)
}

func TestConsolePrintsEachNotificationOnce(t *testing.T) {
	c, out, _ := newTestConsole(t)

	c.app.Tray().HandleEvent(events.New(events.KindLike, "bob"))
	c.app.Tray().HandleEvent(events.New(events.KindLogout, "carol"))

	assert.Equal(t, 1, strings.Count(out.String(), "bob liked a message"))
	assert.Contains(t, out.String(), "[warning] carol just logged out")
}

func TestConsoleRunStopsAtEOF(t *testing.T) {
	c, out, _ := newTestConsole(t)

	require.NoError(t, c.Run(context.Background(), strings.NewReader("help\nquit\n")))
	assert.Contains(t, out.String(), "Commands:")
}
