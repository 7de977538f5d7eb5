package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/search"
	"github.com/sentrylog/sentrylog/pkg/types"
)

const (
	defaultErrorsLimit = 50
	maxErrorsLimit     = 100
)

// withMetrics wraps handler, recording a sentrylog_rest_requests_total
// observation keyed by route and the response's HTTP status. A panic in
// handler is answered with 500 and a JSON {"error": ...} body.
func (s *Server) withMetrics(route string, handler func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				log.WithComponent("restapi").Error().Str("route", route).Interface("panic", p).Msg("handler fault")
				writeJSON(rec, http.StatusInternalServerError, map[string]string{"error": fmt.Sprint(p)})
			}
			metrics.RESTRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}()
		handler(rec, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithComponent("restapi").Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Agents())
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	limit := defaultErrorsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxErrorsLimit {
		limit = maxErrorsLimit
	}

	q := r.URL.Query().Get("q")
	all := s.hub.Store().Snapshot()

	var results []types.StoredError
	if q != "" {
		results = search.Run(all, q)
	} else {
		results = all
	}
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []types.StoredError{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totalErrors, totalSuccess, totalWarnings, totalServers, onlineServers := s.hub.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"totalErrors":   totalErrors,
		"totalSuccess":  totalSuccess,
		"totalWarnings": totalWarnings,
		"totalServers":  totalServers,
		"onlineServers": onlineServers,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Store().Insights())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var usedMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		usedMemory = vm.Used
	}
	_, _, _, totalServers, _ := s.hub.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startedAt).Seconds(),
		"memory":  usedMemory,
		"servers": totalServers,
		"errors":  s.hub.Store().Len(),
	})
}
