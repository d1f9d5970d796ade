package wallclient

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"wall-service/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu  sync.Mutex
	got []string
}

func (l *eventLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, s)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.got...)
}

func TestStreamDeliversInReceiptOrder(t *testing.T) {
	stream := NewStream(0)
	defer stream.Close()

	log := &eventLog{}
	stream.Subscribe(func(ev *events.Event) { log.add(ev.Data.Username) })

	var want []string
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("u%d", i)
		want = append(want, name)
		require.True(t, stream.Publish(events.New(events.KindLike, name)))
	}
	stream.Drain()

	assert.Equal(t, want, log.snapshot())
}

func TestStreamNeverRunsHandlersConcurrently(t *testing.T) {
	stream := NewStream(0)
	defer stream.Close()

	var active, overlaps int32
	handler := func(*events.Event) {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		atomic.AddInt32(&active, -1)
	}
	stream.Subscribe(handler)
	stream.Subscribe(handler)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				stream.Publish(events.New(events.KindShare, "x"))
			}
		}()
	}
	wg.Wait()
	stream.Drain()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	stream := NewStream(0)
	defer stream.Close()

	log := &eventLog{}
	sub := stream.Subscribe(func(ev *events.Event) { log.add("first") })
	stream.Subscribe(func(ev *events.Event) { log.add("second") })

	stream.Publish(events.New(events.KindLike, "a"))
	stream.Drain()

	sub.Unsubscribe()
	sub.Unsubscribe()
	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Unsubscribe)

	stream.Publish(events.New(events.KindLike, "a"))
	stream.Drain()

	assert.Equal(t, []string{"first", "second", "second"}, log.snapshot())
}

func TestStreamRecoversFromHandlerPanic(t *testing.T) {
	stream := NewStream(0)
	defer stream.Close()

	log := &eventLog{}
	stream.Subscribe(func(*events.Event) { panic("boom") })
	stream.Subscribe(func(ev *events.Event) { log.add(string(ev.Type)) })

	stream.Publish(events.New(events.KindComment, "a"))
	stream.Publish(events.New(events.KindShare, "a"))
	stream.Drain()

	assert.Equal(t, []string{"comment", "share"}, log.snapshot())
}

func TestPublishAfterCloseIsRejected(t *testing.T) {
	stream := NewStream(1)
	stream.Close()
	stream.Close()

	assert.False(t, stream.Publish(events.New(events.KindLike, "a")))
	stream.Drain()
}
