package agent

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sentrylog/sentrylog/pkg/transport"
	"github.com/sentrylog/sentrylog/pkg/types"
)

func newConnectedAgent(t *testing.T, cfg Config) (*Agent, *transport.Conn, func()) {
	t.Helper()

	connCh := make(chan *transport.Conn, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Accept(w, r)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		connCh <- conn
	})
	srv := httptest.NewServer(mux)

	cfg.ServerURL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	a := New(cfg)
	a.Start()

	var server *transport.Conn
	select {
	case server = <-connCh:
	case <-time.After(2 * time.Second):
		t.Fatal("agent never connected")
	}

	// Drain the register frame the connect loop sends immediately on
	// dial, so callers only observe frames from the lines they feed in.
	if _, err := server.Recv(); err != nil {
		t.Fatalf("recv register: %v", err)
	}

	return a, server, func() {
		a.Stop()
		srv.Close()
	}
}

func TestHandleLineGatesErrorEmissionByUrgency(t *testing.T) {
	a, server, cleanup := newConnectedAgent(t, Config{ServerID: "srv-1", UrgencyThreshold: 5})
	defer cleanup()

	recvCh := make(chan transport.Frame, 2)
	go func() {
		for {
			f, err := server.Recv()
			if err != nil {
				return
			}
			recvCh <- f
		}
	}()

	// Below the urgency gate: a plain INFO line, never forwarded.
	a.handleLine("some informational message", types.LogFileSpec{Type: types.FormatGeneric})
	select {
	case f := <-recvCh:
		t.Fatalf("did not expect a frame for a low-urgency line, got %q", f.Type)
	case <-time.After(200 * time.Millisecond):
	}

	// Clears the gate: ERROR with urgency >= 5.
	a.handleLine("CRITICAL: Authentication system failed", types.LogFileSpec{Type: types.FormatGeneric})
	select {
	case f := <-recvCh:
		if f.Type != types.FrameError {
			t.Fatalf("frame type = %q, want error", f.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an error frame for the urgent line")
	}
}

func TestHandleLineEmitsStatsEveryNLines(t *testing.T) {
	a, server, cleanup := newConnectedAgent(t, Config{ServerID: "srv-2", StatsEveryLines: 3, UrgencyThreshold: 100})
	defer cleanup()

	recvCh := make(chan transport.Frame, 4)
	go func() {
		for {
			f, err := server.Recv()
			if err != nil {
				return
			}
			recvCh <- f
		}
	}()

	for i := 0; i < 3; i++ {
		a.handleLine("just some text", types.LogFileSpec{Type: types.FormatGeneric})
	}

	select {
	case f := <-recvCh:
		if f.Type != types.FrameStats {
			t.Fatalf("frame type = %q, want stats", f.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a stats frame after the 3rd line")
	}

	if got := atomic.LoadInt64(&a.totalLines); got != 3 {
		t.Errorf("totalLines = %d, want 3", got)
	}
}
