package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sentrylog/sentrylog/pkg/broadcast"
	"github.com/sentrylog/sentrylog/pkg/hub"
	"github.com/sentrylog/sentrylog/pkg/store"
	"github.com/sentrylog/sentrylog/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New(store.Config{MaxErrors: 100})
	h := hub.New(st, broadcast.NewHub())
	srv := New(h, broadcast.NewHub())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(h.Close)
	return ts, st
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestErrorsEndpointAppliesSearch(t *testing.T) {
	ts, st := newTestServer(t)
	st.AddError(types.IncomingError{ServerID: "a", LogFile: "/x.log", ErrorMessage: "Database connection failed"})
	st.AddError(types.IncomingError{ServerID: "a", LogFile: "/x.log", ErrorMessage: "Authentication token expired"})

	resp, err := http.Get(ts.URL + "/api/errors?q=database")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var results []types.StoredError
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Category != "Database Connectivity" {
		t.Fatalf("got %+v, want exactly the Database Connectivity record", results)
	}
}

func TestPreflightRequestGets200(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/servers", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
