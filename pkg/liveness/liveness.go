package liveness

import "time"

// Config controls how many missed reporting windows it takes before an
// agent is considered offline.
type Config struct {
	// Window is the expected interval between an agent's stats reports.
	Window time.Duration

	// MissesBeforeOffline is the number of consecutive missed windows
	// tolerated before Status flips to offline.
	MissesBeforeOffline int
}

// DefaultConfig uses a 30-second window and tolerates three missed windows.
func DefaultConfig() Config {
	return Config{
		Window:              30 * time.Second,
		MissesBeforeOffline: 3,
	}
}

// Status tracks the liveness of a single agent.
type Status struct {
	// Online reflects whether the agent is currently considered reachable.
	Online bool

	// LastSeen is the timestamp of the most recent stats report.
	LastSeen time.Time

	// ConsecutiveMisses counts reporting windows elapsed since LastSeen.
	ConsecutiveMisses int
}

// NewStatus returns a Status for an agent that has just registered.
func NewStatus(now time.Time) *Status {
	return &Status{Online: true, LastSeen: now}
}

// Seen records that a report arrived at now, resetting the miss count and
// marking the agent online.
func (s *Status) Seen(now time.Time) {
	s.LastSeen = now
	s.ConsecutiveMisses = 0
	s.Online = true
}

// Sweep evaluates elapsed time since the last report against cfg and flips
// Online to false once MissesBeforeOffline consecutive windows have passed
// without a report. Call it periodically (e.g. once per cfg.Window) for
// every tracked agent.
func (s *Status) Sweep(now time.Time, cfg Config) {
	if cfg.Window <= 0 {
		return
	}
	misses := int(now.Sub(s.LastSeen) / cfg.Window)
	if misses <= s.ConsecutiveMisses {
		return
	}
	s.ConsecutiveMisses = misses
	if misses >= cfg.MissesBeforeOffline {
		s.Online = false
	}
}
