package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type pingPayload struct {
	Value int `json:"value"`
}

func TestConnSendRecvRoundTrip(t *testing.T) {
	serverDone := make(chan Frame, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/link", func(w http.ResponseWriter, r *http.Request) {
		c, err := Accept(w, r)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer c.Close()

		f, err := c.Recv()
		if err != nil {
			t.Errorf("recv: %v", err)
			return
		}
		serverDone <- f

		if err := c.SendType("ack", pingPayload{Value: 2}); err != nil {
			t.Errorf("send: %v", err)
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/link"
	client, err := Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if err := client.SendType("ping", pingPayload{Value: 1}); err != nil {
		t.Fatalf("client send: %v", err)
	}

	select {
	case f := <-serverDone:
		if f.Type != "ping" {
			t.Errorf("got type %q, want ping", f.Type)
		}
		var p pingPayload
		if err := f.Decode(&p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.Value != 1 {
			t.Errorf("got value %d, want 1", p.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive frame")
	}

	ack, err := client.Recv()
	if err != nil {
		t.Fatalf("client recv: %v", err)
	}
	if ack.Type != "ack" {
		t.Errorf("got type %q, want ack", ack.Type)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f, err := Encode("stats", pingPayload{Value: 42})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if f.Type != "stats" {
		t.Errorf("got type %q, want stats", f.Type)
	}

	var p pingPayload
	if err := f.Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Value != 42 {
		t.Errorf("got value %d, want 42", p.Value)
	}
}
