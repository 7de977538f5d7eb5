package restapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sentrylog/sentrylog/pkg/broadcast"
	"github.com/sentrylog/sentrylog/pkg/hub"
	"github.com/sentrylog/sentrylog/pkg/metrics"
)

// Server wires the REST routes and the dashboard push endpoint to a
// shared Hub.
type Server struct {
	hub       *hub.Hub
	broadcast *broadcast.Hub
	startedAt time.Time
}

// New builds a Server over h, publishing dashboard snapshots through bc.
func New(h *hub.Hub, bc *broadcast.Hub) *Server {
	return &Server{hub: h, broadcast: bc, startedAt: time.Now()}
}

// Handler returns the CORS-wrapped REST handler: the polling routes of
// §6 plus /metrics. It does not include the dashboard push endpoint,
// which per spec.md §6 listens on its own port (dashboard HTTP port + 1)
// — see PushHandler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/servers", s.withMetrics("servers", s.handleServers)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/errors", s.withMetrics("errors", s.handleErrors)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/stats", s.withMetrics("stats", s.handleStats)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/insights", s.withMetrics("insights", s.handleInsights)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/health", s.withMetrics("health", s.handleHealth)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", metrics.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		// rs/cors answers preflight with 204 unless told otherwise.
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler(r)
}

// PushHandler returns the dashboard WebSocket push endpoint, served on
// its own listener per spec.md §6's port layout.
func (s *Server) PushHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleDashboard)
	return r
}
