package broadcast

import (
	"sync"

	"github.com/sentrylog/sentrylog/pkg/transport"
)

const outboxSize = 50

// Frame type names pushed to dashboard subscribers.
const (
	FrameServers  = "servers"
	FrameErrors   = "errors"
	FrameNewError = "newError"
	FrameInsights = "insights"
)

// Subscriber is one connected dashboard client.
type Subscriber struct {
	conn   *transport.Conn
	outbox chan transport.Frame
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// Done is closed once the subscriber's write pump exits, signaling its
// owning accept loop to call Unsubscribe.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Send enqueues one frame for this subscriber only. Used for the
// on-subscribe snapshot push; non-blocking like Publish. Guarded by the
// same mutex as close so a send can never race a concurrent Unsubscribe
// into writing on a closed outbox.
func (s *Subscriber) Send(f transport.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.outbox <- f:
	default:
	}
}

// close marks the subscriber closed and closes its outbox, under the same
// lock Send checks, so no send can land on the channel after this point.
// Safe to call more than once.
func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.outbox)
}

func (s *Subscriber) pump() {
	defer close(s.done)
	for f := range s.outbox {
		if err := s.conn.Send(f); err != nil {
			return
		}
	}
}

// Hub fans out frames to all connected dashboard subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

// NewHub creates an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe registers conn and starts its write pump.
func (h *Hub) Subscribe(conn *transport.Conn) *Subscriber {
	sub := &Subscriber{
		conn:   conn,
		outbox: make(chan transport.Frame, outboxSize),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	go sub.pump()
	return sub
}

// Unsubscribe removes sub and stops its write pump. Safe to call more than
// once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		sub.close()
	}
}

// Publish fans a frame out to every connected subscriber. A subscriber
// whose outbox is full misses the update; Publish never blocks on a slow
// reader.
func (h *Hub) Publish(f transport.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.outbox <- f:
		default:
		}
	}
}

// PublishType encodes data as a frame of frameType and publishes it.
func (h *Hub) PublishType(frameType string, data any) error {
	f, err := transport.Encode(frameType, data)
	if err != nil {
		return err
	}
	h.Publish(f)
	return nil
}

// SubscriberCount returns the number of currently connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
