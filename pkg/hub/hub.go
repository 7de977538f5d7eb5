package hub

import (
	"net/http"
	"sync"
	"time"

	"github.com/sentrylog/sentrylog/pkg/broadcast"
	"github.com/sentrylog/sentrylog/pkg/liveness"
	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/store"
	"github.com/sentrylog/sentrylog/pkg/transport"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// recentBroadcastSize is how many stored errors accompany a broadcast
// "errors" frame, per the spec's "recent-50 list".
const recentBroadcastSize = 50

// Hub is the Ingestion Hub: it accepts agent links, dispatches their
// frames into the Memory Store and agent registry, and publishes the
// resulting deltas to the dashboard broadcast fan-out.
type Hub struct {
	store     *store.Store
	broadcast *broadcast.Hub
	registry  *registry

	mu         sync.Mutex
	linkOwners map[*transport.Conn]string

	livenessCfg liveness.Config
	sweepDone   chan struct{}
}

// New wires a Hub to an existing store and broadcast fan-out, and starts
// the liveness sweep that catches agents whose link has gone silently
// dead without erroring out. Both store and bc are owned by the caller
// (typically main) and shared with the REST surface.
func New(st *store.Store, bc *broadcast.Hub) *Hub {
	h := &Hub{
		store:       st,
		broadcast:   bc,
		registry:    newRegistry(),
		linkOwners:  make(map[*transport.Conn]string),
		livenessCfg: liveness.DefaultConfig(),
		sweepDone:   make(chan struct{}),
	}
	go h.sweepLoop()
	return h
}

// Close stops the liveness sweep loop. Safe to call once.
func (h *Hub) Close() {
	close(h.sweepDone)
}

func (h *Hub) sweepLoop() {
	ticker := time.NewTicker(h.livenessCfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-h.sweepDone:
			return
		case now := <-ticker.C:
			if transitioned := h.registry.sweep(h.livenessCfg, now); len(transitioned) > 0 {
				for _, serverID := range transitioned {
					log.WithServerID(serverID).Warn().Msg("agent missed too many liveness windows, marked offline")
				}
				h.updateAgentMetrics()
				h.broadcastServers()
			}
		}
	}
}

// Store exposes the underlying Memory Store for REST and search.
func (h *Hub) Store() *store.Store { return h.store }

// Agents returns the current agent list, transport handles stripped.
func (h *Hub) Agents() []types.AgentRecord { return h.registry.list() }

// Counts summarizes agent totals for the /api/stats route.
func (h *Hub) Counts() (totalErrors, totalSuccess, totalWarnings int64, totalServers, onlineServers int) {
	return h.registry.counts()
}

// ServeAgent upgrades an incoming request to an agent link and serves it
// for as long as the connection stays open. Registered as the agent
// transport's HTTP handler.
func (h *Hub) ServeAgent(w http.ResponseWriter, r *http.Request) {
	conn, err := transport.Accept(w, r)
	if err != nil {
		log.WithComponent("hub").Warn().Err(err).Msg("agent upgrade failed")
		return
	}
	go h.serve(conn)
}

func (h *Hub) serve(conn *transport.Conn) {
	defer h.onClose(conn)
	for {
		frame, err := conn.Recv()
		if err != nil {
			return
		}
		h.dispatch(conn, frame)
	}
}

// dispatch routes one frame by type. A malformed or unrecognized frame is
// logged and ignored; it never disconnects the agent.
func (h *Hub) dispatch(conn *transport.Conn, frame transport.Frame) {
	logger := log.WithComponent("hub")
	switch frame.Type {
	case types.FrameRegister:
		var payload types.RegisterPayload
		if err := frame.Decode(&payload); err != nil {
			logger.Warn().Err(err).Msg("malformed register frame")
			return
		}
		h.handleRegister(conn, payload)

	case types.FrameError:
		var in types.IncomingError
		if err := frame.Decode(&in); err != nil {
			logger.Warn().Err(err).Msg("malformed error frame")
			return
		}
		h.handleError(in)

	case types.FrameStats:
		var report types.StatsReport
		if err := frame.Decode(&report); err != nil {
			logger.Warn().Err(err).Msg("malformed stats frame")
			return
		}
		h.handleStats(report)

	default:
		logger.Warn().Str("type", frame.Type).Msg("unknown frame type, ignoring")
	}
}

func (h *Hub) handleRegister(conn *transport.Conn, payload types.RegisterPayload) {
	now := time.Now().UTC()
	h.registry.register(payload, conn, now)

	h.mu.Lock()
	h.linkOwners[conn] = payload.ServerID
	h.mu.Unlock()

	log.WithServerID(payload.ServerID).Info().Str("serverName", payload.ServerName).Msg("agent registered")
	h.updateAgentMetrics()
	h.broadcastServers()
}

func (h *Hub) handleError(in types.IncomingError) {
	stored := h.store.AddError(in)
	h.registry.recordError(in.ServerID, time.Now().UTC())

	if err := h.broadcast.PublishType(broadcast.FrameNewError, stored); err != nil {
		log.WithComponent("hub").Warn().Err(err).Msg("broadcast newError failed")
	}
	_ = h.broadcast.PublishType(broadcast.FrameErrors, h.store.Recent(recentBroadcastSize))
	_ = h.broadcast.PublishType(broadcast.FrameInsights, h.store.Insights())
}

func (h *Hub) handleStats(report types.StatsReport) {
	h.registry.applyStats(report, time.Now().UTC())
	h.broadcastServers()
}

// onClose marks the owning agent offline within this tick and forgets the
// transport->serverId mapping. Other agents' records are unaffected.
func (h *Hub) onClose(conn *transport.Conn) {
	conn.Close()

	h.mu.Lock()
	serverID, ok := h.linkOwners[conn]
	delete(h.linkOwners, conn)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.registry.offline(serverID, time.Now().UTC())
	log.WithServerID(serverID).Info().Msg("agent link closed, marked offline")
	h.updateAgentMetrics()
	h.broadcastServers()
}

func (h *Hub) broadcastServers() {
	_ = h.broadcast.PublishType(broadcast.FrameServers, h.registry.list())
}

func (h *Hub) updateAgentMetrics() {
	var online, offline int
	for _, rec := range h.registry.list() {
		if rec.Status == types.AgentOnline {
			online++
		} else {
			offline++
		}
	}
	metrics.AgentsTotal.WithLabelValues("online").Set(float64(online))
	metrics.AgentsTotal.WithLabelValues("offline").Set(float64(offline))
}
