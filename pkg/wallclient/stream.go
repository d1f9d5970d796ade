package wallclient

import (
	"log/slog"
	"sync"

	"wall-service/pkg/events"
)

// Handler receives one event at a time, in receipt order
type Handler func(ev *events.Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Stream fans received events out to local subscribers. A single dispatcher
// goroutine invokes handlers, so no two handler calls ever overlap.
type Stream struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64

	queue     chan queued
	done      chan struct{}
	closeOnce sync.Once
}

// queued is either an event or a drain barrier
type queued struct {
	ev      *events.Event
	barrier chan struct{}
}

// Subscription cancels a Subscribe call
type Subscription struct {
	stream *Stream
	id     uint64
	once   sync.Once
}

func NewStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = 64
	}
	s := &Stream{
		queue: make(chan queued, buffer),
		done:  make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Subscribe registers handler for every event published after this call
func (s *Stream) Subscribe(handler Handler) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.subs = append(s.subs, subscriber{id: s.nextID, handler: handler})
	return &Subscription{stream: s, id: s.nextID}
}

// Unsubscribe stops delivery to the handler. Calling it again does nothing.
func (sub *Subscription) Unsubscribe() {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		sub.stream.remove(sub.id)
	})
}

func (s *Stream) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Publish queues ev for dispatch. Returns false once the stream is closed.
func (s *Stream) Publish(ev *events.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.queue <- queued{ev: ev}:
		return true
	case <-s.done:
		return false
	}
}

// Drain blocks until every event published before the call has been dispatched
func (s *Stream) Drain() {
	barrier := make(chan struct{})
	select {
	case s.queue <- queued{barrier: barrier}:
	case <-s.done:
		return
	}
	select {
	case <-barrier:
	case <-s.done:
	}
}

// Close stops the dispatcher. Queued events that were not yet dispatched are dropped.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Stream) dispatch() {
	for {
		select {
		case item := <-s.queue:
			if item.barrier != nil {
				close(item.barrier)
				continue
			}
			s.deliver(item.ev)
		case <-s.done:
			return
		}
	}
}

func (s *Stream) deliver(ev *events.Event) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		s.invoke(sub, ev)
	}
}

func (s *Stream) invoke(sub subscriber, ev *events.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Subscriber panicked", "subscription", sub.id, "type", ev.Type, "panic", r)
		}
	}()
	sub.handler(ev)
}
