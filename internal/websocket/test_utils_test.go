package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wall-service/pkg/events"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// fakeChannel implements Channel and records every frame it is sent
type fakeChannel struct {
	id     string
	userID string

	mu       sync.Mutex
	messages [][]byte
	closed   bool
	full     bool

	// stall makes Close block until it is closed, like a peer that never
	// acknowledges the close frame
	stall chan struct{}
}

func newFakeChannel(id, userID string) *fakeChannel {
	return &fakeChannel{id: id, userID: userID}
}

func (f *fakeChannel) ID() string     { return f.id }
func (f *fakeChannel) UserID() string { return f.userID }

func (f *fakeChannel) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClientDisconnected
	}
	if f.full {
		return ErrSendBufferFull
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeChannel) Close() error {
	if f.stall != nil {
		<-f.stall
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeChannel) setFull(full bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.full = full
}

// received returns the decoded frames of the given kind
func (f *fakeChannel) received(t *testing.T, kind events.Kind) []*events.Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*events.Event
	for _, raw := range f.messages {
		ev, err := events.Decode(raw)
		require.NoError(t, err)
		if ev.Type == kind {
			out = append(out, ev)
		}
	}
	return out
}

// mockConn implements Conn for driving a Client without a network
type mockConn struct {
	incoming  chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	written  [][]byte
	controls []int
}

var errClosedConnection = errors.New("connection closed")

func newMockConn() *mockConn {
	return &mockConn{
		incoming: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-m.incoming:
		return websocket.TextMessage, data, nil
	case <-m.done:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
	}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-m.done:
		return errClosedConnection
	default:
	}
	if messageType != websocket.TextMessage {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, data)
	return nil
}

func (m *mockConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controls = append(m.controls, messageType)
	return nil
}

func (m *mockConn) SetReadLimit(limit int64)                    {}
func (m *mockConn) SetReadDeadline(t time.Time) error           { return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error          { return nil }
func (m *mockConn) SetPongHandler(h func(appData string) error) {}

func (m *mockConn) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

// drop simulates the transport going away without a close handshake
func (m *mockConn) drop() {
	m.Close()
}

func (m *mockConn) isClosed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *mockConn) frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

// recordingPresence records presence updates in the order they are applied
type recordingPresence struct {
	mu      sync.Mutex
	updates []string
}

func (p *recordingPresence) SetUserOnline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, "online:"+userID)
	return nil
}

func (p *recordingPresence) SetUserOffline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, "offline:"+userID)
	return nil
}

func (p *recordingPresence) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.updates...)
}

// startHub runs a hub for the duration of the test
func startHub(t *testing.T, presence Presence) *Hub {
	t.Helper()
	hub := NewHub(NewRegistry(), presence)
	go hub.Run()
	t.Cleanup(func() {
		hub.Stop()
		<-hub.Done()
	})
	return hub
}

func rawEvent(t *testing.T, kind events.Kind, username string) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": map[string]interface{}{
			"username":  username,
			"messageId": "65f0c2a1e4b0a1b2c3d4e5f6",
			"timestamp": "1999-01-01T00:00:00Z",
		},
	})
	require.NoError(t, err)
	return data
}

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond
