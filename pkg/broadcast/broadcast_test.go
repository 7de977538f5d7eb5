package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sentrylog/sentrylog/pkg/transport"
)

type statPayload struct {
	Count int `json:"count"`
}

func newLinkedSubscriber(t *testing.T, hub *Hub) (*Subscriber, *transport.Conn, func()) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Accept(w, r)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		hub.Subscribe(conn)
	})
	srv := httptest.NewServer(mux)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard"
	client, err := transport.Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	// Give the server goroutine a moment to register the subscriber.
	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for subscription")
		}
		time.Sleep(time.Millisecond)
	}

	var sub *Subscriber
	hub.mu.RLock()
	for s := range hub.subscribers {
		sub = s
	}
	hub.mu.RUnlock()

	return sub, client, func() {
		client.Close()
		srv.Close()
	}
}

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	_, client, cleanup := newLinkedSubscriber(t, hub)
	defer cleanup()

	if err := hub.PublishType(FrameErrors, statPayload{Count: 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	type result struct {
		f   transport.Frame
		err error
	}
	recvCh := make(chan result, 1)
	go func() {
		f, err := client.Recv()
		recvCh <- result{f, err}
	}()

	var f transport.Frame
	select {
	case r := <-recvCh:
		if r.err != nil {
			t.Fatalf("recv: %v", r.err)
		}
		f = r.f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published frame")
	}
	if f.Type != FrameErrors {
		t.Errorf("got type %q, want %q", f.Type, FrameErrors)
	}
	var p statPayload
	if err := f.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Count != 3 {
		t.Errorf("got count %d, want 3", p.Count)
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	sub, _, cleanup := newLinkedSubscriber(t, hub)
	defer cleanup()

	hub.Unsubscribe(sub)
	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("got %d subscribers after unsubscribe, want 0", got)
	}

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("pump did not exit after unsubscribe")
	}
}

func TestSubscriberSendDoesNotBlockWhenOutboxFull(t *testing.T) {
	sub := &Subscriber{outbox: make(chan transport.Frame, 1), done: make(chan struct{})}
	sub.Send(transport.Frame{Type: "a"})
	sub.Send(transport.Frame{Type: "b"}) // would block without the default case
	close(sub.outbox)
}
