package agent

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/parser"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// approximateLineNumber reports floor(fileSize/100) as the coarse advisory
// line-number estimate the spec calls for, not a true line count. A stat
// failure yields 0 rather than blocking the pipeline.
func approximateLineNumber(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size() / 100
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// handleLine runs one tailed line through the parser, updates the running
// counters, and forwards an error message upstream when the event clears
// the urgency gate. It is called directly from a tailer's goroutine, so
// it must never block on the network for more than the transport's own
// write deadline.
func (a *Agent) handleLine(line string, spec types.LogFileSpec) {
	ev := parser.Parse(line, spec)
	metrics.TailerLinesTotal.WithLabelValues(string(ev.Level)).Inc()

	switch ev.Level {
	case types.LevelError:
		atomic.AddInt64(&a.errors, 1)
	case types.LevelWarn:
		atomic.AddInt64(&a.warnings, 1)
	default:
		atomic.AddInt64(&a.success, 1)
	}
	total := atomic.AddInt64(&a.totalLines, 1)

	if ev.Level == types.LevelError && ev.Urgency >= a.cfg.UrgencyThreshold {
		a.sendError(ev, spec)
	}

	if total%a.cfg.StatsEveryLines == 0 {
		a.sendStats()
	}
}

// sendError builds and forwards the error.data payload for one urgent
// parsed event. LineNumber is the coarse floor(fileSize/100) approximation
// called for in the spec, not a true line count.
func (a *Agent) sendError(ev types.ParsedEvent, spec types.LogFileSpec) {
	payload := types.IncomingError{
		ServerID:     a.cfg.ServerID,
		ServerName:   a.cfg.ServerName,
		LogFile:      spec.Path,
		LineNumber:   approximateLineNumber(spec.Path),
		Timestamp:    ev.Timestamp,
		ErrorMessage: ev.Message,
		Parser:       ev.Parser,
		Urgency:      ev.Urgency,
		Semantics:    ev.Semantics,
	}
	a.send(types.FrameError, payload)
}

func (a *Agent) sendStats() {
	report := types.StatsReport{
		ServerID: a.cfg.ServerID,
		Stats: types.AgentStats{
			Errors:     atomic.LoadInt64(&a.errors),
			Warnings:   atomic.LoadInt64(&a.warnings),
			Success:    atomic.LoadInt64(&a.success),
			TotalLines: atomic.LoadInt64(&a.totalLines),
		},
		Timestamp: nowUTC(),
		Uptime:    a.uptime().Seconds(),
		Memory:    currentPlatform().MemoryBytes,
	}
	a.send(types.FrameStats, report)
}
