package hub

import (
	"sort"
	"sync"
	"time"

	"github.com/sentrylog/sentrylog/pkg/liveness"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// registry holds every AgentRecord the server has ever seen register,
// across disconnects, per the AgentRecord lifecycle ("retained across
// disconnects; status flips").
//
// Liveness is tracked two ways: a transport close flips an agent offline
// immediately (handled by Hub.onClose), and a liveness.Status per agent
// catches the case the spec's §5 "no I/O deadline" limitation leaves
// open — a link that goes silently dead without erroring out. sweep
// applies that second check on a timer.
type registry struct {
	mu       sync.Mutex
	agents   map[string]*types.AgentRecord
	liveness map[string]*liveness.Status
}

func newRegistry() *registry {
	return &registry{
		agents:   make(map[string]*types.AgentRecord),
		liveness: make(map[string]*liveness.Status),
	}
}

// register creates or revives the AgentRecord named by payload.ServerID,
// binds link as its active transport handle, and marks it online.
func (r *registry) register(payload types.RegisterPayload, link any, now time.Time) types.AgentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.agents[payload.ServerID]
	if !ok {
		rec = &types.AgentRecord{RegisteredAt: now}
		r.agents[payload.ServerID] = rec
	}
	rec.AgentIdentity = types.AgentIdentity{
		ServerID:   payload.ServerID,
		ServerName: payload.ServerName,
		Platform:   payload.Platform,
		LogFiles:   logFileSpecs(payload.LogFiles),
	}
	rec.Status = types.AgentOnline
	rec.LastSeen = now
	rec.Link = link
	r.liveness[payload.ServerID] = liveness.NewStatus(now)
	return *rec
}

// recordError increments the owning agent's error counter. A no-op if
// serverID names no known agent (e.g. a race with a late-arriving error
// from an agent that hasn't registered yet).
func (r *registry) recordError(serverID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.agents[serverID]; ok {
		rec.ErrorCount++
		rec.LastSeen = now
	}
	if s, ok := r.liveness[serverID]; ok {
		s.Seen(now)
	}
}

// applyStats resynchronizes an agent's counters from its latest periodic
// report; stats are cumulative totals the agent tracks itself, so this
// overwrites rather than adds.
func (r *registry) applyStats(report types.StatsReport, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.agents[report.ServerID]
	if !ok {
		return
	}
	rec.ErrorCount = report.Stats.Errors
	rec.WarningCount = report.Stats.Warnings
	rec.SuccessCount = report.Stats.Success
	rec.LastSeen = now
	if s, ok := r.liveness[report.ServerID]; ok {
		s.Seen(now)
	}
}

// offline marks serverID's record offline and clears its transport
// handle. Per the invariant, this must happen within one event loop tick
// of the transport closing.
func (r *registry) offline(serverID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.agents[serverID]; ok {
		rec.Status = types.AgentOffline
		rec.LastSeen = now
		rec.Link = nil
	}
}

// sweep applies the liveness heartbeat check to every online agent and
// returns the serverIds that transitioned to offline as a result, so the
// caller can broadcast the change.
func (r *registry) sweep(cfg liveness.Config, now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var transitioned []string
	for serverID, s := range r.liveness {
		rec, ok := r.agents[serverID]
		if !ok || rec.Status != types.AgentOnline {
			continue
		}
		s.Sweep(now, cfg)
		if !s.Online {
			rec.Status = types.AgentOffline
			rec.LastSeen = now
			rec.Link = nil
			transitioned = append(transitioned, serverID)
		}
	}
	return transitioned
}

// list returns every AgentRecord, sorted by ServerID for a stable REST
// and broadcast ordering, with the transport handle stripped.
func (r *registry) list() []types.AgentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.AgentRecord, 0, len(r.agents))
	for _, rec := range r.agents {
		cp := *rec
		cp.Link = nil
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServerID < out[j].ServerID })
	return out
}

// counts summarizes totals across every agent for the /api/stats route.
func (r *registry) counts() (totalErrors, totalSuccess, totalWarnings int64, totalServers, onlineServers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.agents {
		totalErrors += rec.ErrorCount
		totalSuccess += rec.SuccessCount
		totalWarnings += rec.WarningCount
		totalServers++
		if rec.Status == types.AgentOnline {
			onlineServers++
		}
	}
	return
}

func logFileSpecs(paths []string) []types.LogFileSpec {
	specs := make([]types.LogFileSpec, len(paths))
	for i, p := range paths {
		specs[i] = types.LogFileSpec{Path: p, Type: types.FormatAuto}
	}
	return specs
}
