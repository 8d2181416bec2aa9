// Package metrics provides lightweight, lock-free counters for tracking
// what a logsend run actually put on the wire.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks delivery statistics for one run.
type Collector struct {
	connectAttempts   atomic.Int64
	connectFailures   atomic.Int64
	connectionsOpened atomic.Int64
	messagesSent      atomic.Int64
	messagesDropped   atomic.Int64
	bytesOut          atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// CandidateAttempted counts one dial against one candidate address.
func (c *Collector) CandidateAttempted() {
	if c == nil {
		return
	}
	c.connectAttempts.Add(1)
}

// CandidateFailed counts one failed dial.
func (c *Collector) CandidateFailed() {
	if c == nil {
		return
	}
	c.connectFailures.Add(1)
}

// ConnectionOpened counts a successful connect.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsOpened.Add(1)
}

// ConnectAttempts returns the number of candidate dials.
func (c *Collector) ConnectAttempts() int64 {
	if c == nil {
		return 0
	}
	return c.connectAttempts.Load()
}

// ConnectFailures returns the number of failed candidate dials.
func (c *Collector) ConnectFailures() int64 {
	if c == nil {
		return 0
	}
	return c.connectFailures.Load()
}

// ConnectionsOpened returns the number of established connections.
func (c *Collector) ConnectionsOpened() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsOpened.Load()
}

// ── Message metrics ──────────────────────────────────────────────────

// MessageSent records one record of n bytes handed to the transport.
func (c *Collector) MessageSent(n int) {
	if c == nil {
		return
	}
	c.messagesSent.Add(1)
	c.bytesOut.Add(int64(n))
}

// MessageDropped records a message that never reached the transport
// and stores the reason.
func (c *Collector) MessageDropped(reason string) {
	if c == nil {
		return
	}
	c.messagesDropped.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = reason
	c.mu.Unlock()
}

// MessagesSent returns the number of delivered records.
func (c *Collector) MessagesSent() int64 {
	if c == nil {
		return 0
	}
	return c.messagesSent.Load()
}

// MessagesDropped returns the number of dropped records.
func (c *Collector) MessagesDropped() int64 {
	if c == nil {
		return 0
	}
	return c.messagesDropped.Load()
}

// BytesOut returns total bytes written.
func (c *Collector) BytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	ConnectAttempts   int64  `json:"connect_attempts"`
	ConnectFailures   int64  `json:"connect_failures"`
	ConnectionsOpened int64  `json:"connections_opened"`
	MessagesSent      int64  `json:"messages_sent"`
	MessagesDropped   int64  `json:"messages_dropped"`
	BytesOut          int64  `json:"bytes_out"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Millisecond).String(),
		ConnectAttempts:   c.connectAttempts.Load(),
		ConnectFailures:   c.connectFailures.Load(),
		ConnectionsOpened: c.connectionsOpened.Load(),
		MessagesSent:      c.messagesSent.Load(),
		MessagesDropped:   c.messagesDropped.Load(),
		BytesOut:          c.bytesOut.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	data, _ := json.MarshalIndent(c.Snapshot(), "", "  ")
	return string(data)
}
