package wallclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"wall-service/pkg/events"

	"github.com/gorilla/websocket"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrConnectCanceled = errors.New("connect canceled by disconnect")
)

const writeWait = 10 * time.Second

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Dialer opens the transport. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

type SessionOptions struct {
	Dialer Dialer
	// OnStateChange is called after every transition, outside the session lock
	OnStateChange func(State)
}

// Session owns the single push channel of a client. It never reconnects on its
// own: after a transport failure it stays Disconnected until Connect is called.
type Session struct {
	endpoint      string
	stream        *Stream
	dialer        Dialer
	onStateChange func(State)

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	userID   string
	username string
	readDone chan struct{}
	// attempt identifies the current connect; Disconnect bumps it to abandon a dial
	attempt    uint64
	cancelDial context.CancelFunc

	writeMu sync.Mutex
}

// NewSession creates a session for the hub endpoint, e.g. ws://host/api/v1/ws.
// Received events are published on stream.
func NewSession(endpoint string, stream *Stream, opts SessionOptions) *Session {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Session{
		endpoint:      endpoint,
		stream:        stream,
		dialer:        dialer,
		onStateChange: opts.OnStateChange,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect opens the channel for id and announces the connection to other users.
// It does nothing while a connection for the same user is being opened or is
// already open. A channel held for another user is disconnected first.
func (s *Session) Connect(ctx context.Context, id Identity) error {
	s.mu.Lock()
	if s.state != StateDisconnected && s.userID != id.UserID {
		previous := s.userID
		s.mu.Unlock()
		slog.Info("Switching wall identity", "from", previous, "to", id.UserID)
		if err := s.Disconnect(); err != nil {
			slog.Debug("Error closing previous channel", "userID", previous, "error", err)
		}
		s.mu.Lock()
	}
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.attempt++
	attempt := s.attempt
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancelDial = cancel
	s.userID = id.UserID
	s.state = StateConnecting
	s.mu.Unlock()
	s.notifyState(StateConnecting)

	username := id.Username
	if username == "" {
		username = id.UserID
	}

	target, err := s.dialURL(id.UserID)
	if err != nil {
		return s.abortConnect(attempt, err)
	}

	conn, _, err := s.dialer.DialContext(dialCtx, target, nil)
	if err != nil {
		return s.abortConnect(attempt, fmt.Errorf("dial %s: %w", s.endpoint, err))
	}

	readDone := make(chan struct{})
	s.mu.Lock()
	if s.attempt != attempt {
		s.mu.Unlock()
		conn.Close()
		return ErrConnectCanceled
	}
	s.cancelDial = nil
	s.conn = conn
	s.username = username
	s.readDone = readDone
	s.state = StateOpen
	s.mu.Unlock()
	s.notifyState(StateOpen)

	slog.Info("Connected to wall", "endpoint", s.endpoint, "userID", id.UserID)
	go s.readLoop(conn, readDone)

	return s.emit(events.New(events.KindConnection, username))
}

// abortConnect returns to Disconnected unless a Disconnect already abandoned the attempt
func (s *Session) abortConnect(attempt uint64, err error) error {
	s.mu.Lock()
	if s.attempt != attempt {
		s.mu.Unlock()
		return ErrConnectCanceled
	}
	s.cancelDial = nil
	s.state = StateDisconnected
	s.mu.Unlock()
	s.notifyState(StateDisconnected)
	return err
}

// Disconnect announces the logout and closes the channel. While a connection is
// being opened it abandons the dial instead. Safe to call when disconnected.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	switch s.state {
	case StateConnecting:
		s.attempt++
		cancel := s.cancelDial
		s.cancelDial = nil
		s.state = StateDisconnected
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		s.notifyState(StateDisconnected)
		return nil
	case StateOpen:
	default:
		s.mu.Unlock()
		return nil
	}
	conn := s.conn
	username := s.username
	readDone := s.readDone
	s.conn = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	if err := s.write(conn, events.New(events.KindLogout, username)); err != nil {
		slog.Debug("Failed to send logout", "error", err)
	}

	s.writeMu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()
	err := conn.Close()

	<-readDone
	s.notifyState(StateDisconnected)
	slog.Info("Disconnected from wall", "username", username)
	return err
}

func (s *Session) NotifyLike(messageID string) error {
	ev := events.New(events.KindLike, s.currentUsername())
	ev.Data.MessageID = messageID
	return s.emit(ev)
}

// NotifyComment announces a comment with a preview of its text
func (s *Session) NotifyComment(messageID, text string) error {
	ev := events.New(events.KindComment, s.currentUsername())
	ev.Data.MessageID = messageID
	ev.Data.CommentText = events.Preview(text)
	return s.emit(ev)
}

func (s *Session) NotifyShare(messageID string) error {
	ev := events.New(events.KindShare, s.currentUsername())
	ev.Data.MessageID = messageID
	return s.emit(ev)
}

func (s *Session) currentUsername() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) emit(ev *events.Event) error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrNotConnected
	}
	conn := s.conn
	s.mu.Unlock()

	if err := s.write(conn, ev); err != nil {
		s.dropped(conn, err)
		return fmt.Errorf("send %s: %w", ev.Type, err)
	}
	return nil
}

func (s *Session) write(conn *websocket.Conn, ev *events.Event) error {
	data, err := ev.Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.dropped(conn, err)
			return
		}

		ev, err := events.Decode(data)
		if err != nil {
			slog.Warn("Ignoring undecodable frame", "error", err)
			continue
		}
		s.stream.Publish(ev)
	}
}

// dropped moves to Disconnected if conn is still the live transport
func (s *Session) dropped(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	conn.Close()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		slog.Warn("Wall connection lost", "error", err)
	} else {
		slog.Info("Wall connection closed", "error", err)
	}
	s.notifyState(StateDisconnected)
}

func (s *Session) notifyState(state State) {
	if s.onStateChange != nil {
		s.onStateChange(state)
	}
}

func (s *Session) dialURL(userID string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	if userID != "" {
		q.Set("userId", userID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
