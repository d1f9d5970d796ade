package websocket

import (
	"sync/atomic"
	"time"
)

// HubMetrics tracks fan-out counters for diagnostics
type HubMetrics struct {
	connections   atomic.Int64
	superseded    atomic.Int64
	inbound       atomic.Int64
	dropped       atomic.Int64
	broadcasts    atomic.Int64
	delivered     atomic.Int64
	skipped       atomic.Int64
	lastBroadcast atomic.Int64 // unix nanos
}

// MetricsSnapshot is a point-in-time copy of HubMetrics
type MetricsSnapshot struct {
	Connections   int64     `json:"connections"`
	Superseded    int64     `json:"superseded"`
	Inbound       int64     `json:"inbound"`
	Dropped       int64     `json:"dropped"`
	Broadcasts    int64     `json:"broadcasts"`
	Delivered     int64     `json:"delivered"`
	Skipped       int64     `json:"skipped"`
	LastBroadcast time.Time `json:"lastBroadcast,omitempty"`
	Online        int       `json:"online"`
}

func (m *HubMetrics) recordBroadcast(delivered, skipped int) {
	m.broadcasts.Add(1)
	m.delivered.Add(int64(delivered))
	m.skipped.Add(int64(skipped))
	m.lastBroadcast.Store(time.Now().UnixNano())
}

// Snapshot returns the current counter values
func (m *HubMetrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Connections: m.connections.Load(),
		Superseded:  m.superseded.Load(),
		Inbound:     m.inbound.Load(),
		Dropped:     m.dropped.Load(),
		Broadcasts:  m.broadcasts.Load(),
		Delivered:   m.delivered.Load(),
		Skipped:     m.skipped.Load(),
	}
	if ns := m.lastBroadcast.Load(); ns > 0 {
		s.LastBroadcast = time.Unix(0, ns).UTC()
	}
	return s
}
