package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wall-service/pkg/events"
)

var (
	ErrHubStopped         = errors.New("hub stopped")
	ErrClientDisconnected = errors.New("client disconnected")
	ErrSendBufferFull     = errors.New("send buffer full")
)

const (
	presenceQueueSize = 256
	presenceTimeout   = 3 * time.Second
)

// Presence mirrors hub membership into an external store
type Presence interface {
	SetUserOnline(ctx context.Context, userID string) error
	SetUserOffline(ctx context.Context, userID string) error
}

type inboundFrame struct {
	userID string
	data   []byte
}

type presenceUpdate struct {
	userID string
	online bool
}

// Hub relays action events from one connected user to every other connected user.
// Register, unregister and inbound frames are processed by a single goroutine in
// arrival order.
type Hub struct {
	registry *Registry

	// Register requests from the clients
	register chan Channel

	// Unregister requests from clients
	unregister chan Channel

	// Raw frames read from clients
	inbound chan *inboundFrame

	presence      Presence
	presenceQueue chan presenceUpdate

	metrics HubMetrics

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub around registry. presence may be nil.
func NewHub(registry *Registry, presence Presence) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		registry:      registry,
		register:      make(chan Channel),
		unregister:    make(chan Channel),
		inbound:       make(chan *inboundFrame, 64),
		presence:      presence,
		presenceQueue: make(chan presenceUpdate, presenceQueueSize),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	if h.presence != nil {
		go h.runPresence()
	}

	for {
		select {
		case ch := <-h.register:
			h.registerChannel(ch)

		case ch := <-h.unregister:
			h.unregisterChannel(ch)

		case frame := <-h.inbound:
			h.handleInbound(frame)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down", "online", h.registry.Size())
			h.registry.CloseAll()
			return
		}
	}
}

// Stop ends the event loop and closes every channel
func (h *Hub) Stop() {
	h.cancel()
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register queues ch for registration under its user ID
func (h *Hub) Register(ch Channel) error {
	if h.ctx.Err() != nil {
		return ErrHubStopped
	}
	select {
	case h.register <- ch:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Unregister queues ch for removal. A channel that was already superseded is only closed.
func (h *Hub) Unregister(ch Channel) {
	select {
	case h.unregister <- ch:
	case <-h.ctx.Done():
	}
}

// OnInbound queues a raw frame received from senderUserID
func (h *Hub) OnInbound(senderUserID string, raw []byte) error {
	if h.ctx.Err() != nil {
		return ErrHubStopped
	}
	select {
	case h.inbound <- &inboundFrame{userID: senderUserID, data: raw}:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Broadcast delivers ev to every registered channel except the one owned by
// excludeUserID. Channels that cannot take the frame right now are skipped.
// Returns the number of channels the frame was queued on.
func (h *Hub) Broadcast(ev *events.Event, excludeUserID string) int {
	data, err := ev.Encode()
	if err != nil {
		slog.Error("Failed to encode event", "type", ev.Type, "error", err)
		return 0
	}

	delivered, skipped := 0, 0
	h.registry.ForEachExcept(excludeUserID, func(userID string, ch Channel) {
		if err := ch.Send(data); err != nil {
			skipped++
			slog.Debug("Skipping receiver", "userID", userID, "clientID", ch.ID(), "error", err)
			return
		}
		delivered++
	})

	h.metrics.recordBroadcast(delivered, skipped)
	slog.Debug("Event broadcast", "type", ev.Type, "sender", excludeUserID, "delivered", delivered, "skipped", skipped)
	return delivered
}

// Registry exposes the connection registry for diagnostics
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Metrics returns the hub counters
func (h *Hub) Metrics() MetricsSnapshot {
	s := h.metrics.Snapshot()
	s.Online = h.registry.Size()
	return s
}

func (h *Hub) registerChannel(ch Channel) {
	userID := ch.UserID()
	if previous := h.registry.Register(userID, ch); previous != nil {
		h.metrics.superseded.Add(1)
	}
	h.metrics.connections.Add(1)

	slog.Info("Client registered", "clientID", ch.ID(), "userID", userID, "online", h.registry.Size())

	info, err := events.NewInfo(fmt.Sprintf("Connected to the wall as %s", userID)).Encode()
	if err == nil {
		if err := ch.Send(info); err != nil {
			slog.Debug("Failed to send info frame", "clientID", ch.ID(), "error", err)
		}
	}

	h.queuePresence(userID, true)
}

func (h *Hub) unregisterChannel(ch Channel) {
	userID := ch.UserID()
	if h.registry.Unregister(userID, ch) {
		slog.Info("Client unregistered", "clientID", ch.ID(), "userID", userID, "online", h.registry.Size())
		h.queuePresence(userID, false)
	} else {
		slog.Debug("Ignoring unregister of stale connection", "clientID", ch.ID(), "userID", userID)
	}
	go closeChannel(ch)
}

func (h *Hub) handleInbound(frame *inboundFrame) {
	h.metrics.inbound.Add(1)

	ev, err := events.Parse(frame.data)
	if err != nil {
		h.metrics.dropped.Add(1)
		slog.Warn("Dropping inbound event", "userID", frame.userID, "error", err)
		return
	}

	// The hub clock is authoritative
	ev.Data.Timestamp = events.Now()
	if ev.Data.Username == "" {
		ev.Data.Username = frame.userID
	}

	h.Broadcast(ev, frame.userID)
}

func (h *Hub) queuePresence(userID string, online bool) {
	if h.presence == nil {
		return
	}
	select {
	case h.presenceQueue <- presenceUpdate{userID: userID, online: online}:
	default:
		slog.Warn("Presence queue full, dropping update", "userID", userID, "online", online)
	}
}

// runPresence applies presence updates in order without holding up the event loop
func (h *Hub) runPresence() {
	for {
		select {
		case update := <-h.presenceQueue:
			ctx, cancel := context.WithTimeout(h.ctx, presenceTimeout)
			var err error
			if update.online {
				err = h.presence.SetUserOnline(ctx, update.userID)
			} else {
				err = h.presence.SetUserOffline(ctx, update.userID)
			}
			cancel()
			if err != nil {
				slog.Error("Failed to update presence", "userID", update.userID, "online", update.online, "error", err)
			}
		case <-h.ctx.Done():
			return
		}
	}
}
