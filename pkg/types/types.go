/*
Package types defines the data model shared by sentrylog's agent and server:
parsed log events, agent identities and records, stored errors, pattern
entries, and derived insights. Every other package builds on these types
rather than defining its own parallel structs.
*/
package types

import "time"

// LogFormat names a known log format, or auto for content-based detection.
type LogFormat string

const (
	FormatNginx    LogFormat = "nginx"
	FormatApache   LogFormat = "apache"
	FormatJSON     LogFormat = "json"
	FormatSyslog   LogFormat = "syslog"
	FormatAuto     LogFormat = "auto"
	FormatGeneric  LogFormat = "generic"
	FormatFallback LogFormat = "fallback"
)

// Agent-to-server frame type names.
const (
	FrameRegister = "register"
	FrameError    = "error"
	FrameStats    = "stats"
)

// LogFileSpec names one file to tail and the format it should be parsed as.
// Immutable once configured.
type LogFileSpec struct {
	Path string    `json:"path"`
	Type LogFormat `json:"type"`
}

// RawLine is one delimited line read from a tailed file.
type RawLine struct {
	Line   string
	Source LogFileSpec
}

// Level is a normalized log severity.
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
	LevelInfo  Level = "INFO"
	LevelDebug Level = "DEBUG"
)

// Semantics is the boolean feature vector extracted from a message body.
type Semantics struct {
	HasIPAddress  bool `json:"hasIpAddress"`
	HasURL        bool `json:"hasUrl"`
	HasStatusCode bool `json:"hasStatusCode"`
	HasTimestamp  bool `json:"hasTimestamp"`
	HasDatabase   bool `json:"hasDatabase"`
	HasNetwork    bool `json:"hasNetwork"`
	HasAuth       bool `json:"hasAuth"`
	HasMemory     bool `json:"hasMemory"`
	HasSecurity   bool `json:"hasSecurity"`
}

// ParsedEvent is the structured record produced by the log parser for one
// raw line.
type ParsedEvent struct {
	Timestamp    time.Time         `json:"timestamp"`
	Level        Level             `json:"level"`
	Message      string            `json:"message"`
	OriginalLine string            `json:"originalLine"`
	Parser       LogFormat         `json:"parser"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Semantics    Semantics         `json:"semantics"`
	Urgency      int               `json:"urgency"`
}

// Platform describes the host an agent is running on. The OS field is
// tagged "platform" in JSON to match the wire register message, which
// names it that way rather than "os".
type Platform struct {
	Hostname       string `json:"hostname"`
	OS             string `json:"platform"`
	Arch           string `json:"arch"`
	RuntimeVersion string `json:"runtimeVersion"`
	MemoryBytes    uint64 `json:"memory"`
}

// RegisterPayload is the register.data wire payload an agent sends on
// connect.
type RegisterPayload struct {
	ServerID   string    `json:"serverId"`
	ServerName string    `json:"serverName"`
	LogFiles   []string  `json:"logFiles"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Platform   Platform  `json:"platform"`
}

// AgentIdentity is what an agent announces about itself on registration.
type AgentIdentity struct {
	ServerID   string        `json:"serverId"`
	ServerName string        `json:"serverName"`
	Platform   Platform      `json:"platform"`
	LogFiles   []LogFileSpec `json:"logFiles"`
}

// AgentStatus is the server-side liveness state of an agent.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentOffline AgentStatus = "offline"
)

// AgentRecord is the server's bookkeeping for one registered agent. Link is
// the opaque transport handle bound while the agent is online; it is left
// nil whenever Status is AgentOffline.
type AgentRecord struct {
	AgentIdentity
	Status       AgentStatus `json:"status"`
	ErrorCount   int64       `json:"errorCount"`
	WarningCount int64       `json:"warningCount"`
	SuccessCount int64       `json:"successCount"`
	RegisteredAt time.Time   `json:"registeredAt"`
	LastSeen     time.Time   `json:"lastSeen"`
	Link         any         `json:"-"`
}

// Trend categorizes how frequently a stored error's normalized message has
// recurred across the store in the last hour.
type Trend string

const (
	TrendNew        Trend = "new"
	TrendStable     Trend = "stable"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
)

// Severity is a coarse urgency bucket derived from the raw message text.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// StoredError is one deduplicated error record held by the memory store.
// Identity is the fingerprint (ServerID, LogFile, normalized ErrorMessage).
type StoredError struct {
	ID           string    `json:"id"`
	ServerID     string    `json:"serverId"`
	ServerName   string    `json:"serverName"`
	LogFile      string    `json:"logFile"`
	LineNumber   int64     `json:"lineNumber"`
	Timestamp    time.Time `json:"timestamp"`
	ErrorMessage string    `json:"errorMessage"`
	Parser       LogFormat `json:"parser"`
	Urgency      int       `json:"urgency"`
	Semantics    Semantics `json:"semantics"`
	Severity     Severity  `json:"severity"`
	Category     string    `json:"category"`
	Count        int64     `json:"count"`
	FirstSeen    time.Time `json:"firstSeen"`
	LastSeen     time.Time `json:"lastSeen"`
	Trend        Trend     `json:"trend"`
}

// Fingerprint is the store's dedup key for an incoming error.
type Fingerprint struct {
	ServerID   string
	LogFile    string
	NormalizedMessage string
}

// PatternEntry tracks cross-server recurrence of one normalized message.
type PatternEntry struct {
	Count     int64
	Servers   map[string]struct{}
	LastSeen  time.Time
}

// InsightType classifies a derived insight.
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightAnomaly        InsightType = "anomaly"
	InsightRecommendation InsightType = "recommendation"
)

// Insight is a derived fact about the corpus of stored errors, replaced
// wholesale on every ingest.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  int         `json:"confidence"`
	Pattern     string      `json:"pattern,omitempty"`
}

// IncomingError is the payload the agent core sends for one urgent event.
type IncomingError struct {
	ServerID     string    `json:"serverId"`
	ServerName   string    `json:"serverName"`
	LogFile      string    `json:"logFile"`
	LineNumber   int64     `json:"lineNumber"`
	Timestamp    time.Time `json:"timestamp"`
	ErrorMessage string    `json:"errorMessage"`
	Parser       LogFormat `json:"parser"`
	Urgency      int       `json:"urgency"`
	Semantics    Semantics `json:"semantics"`
}

// AgentStats is the periodic counter snapshot an agent sends.
type AgentStats struct {
	Errors     int64 `json:"errors"`
	Warnings   int64 `json:"warnings"`
	Success    int64 `json:"success"`
	TotalLines int64 `json:"totalLines"`
}

// StatsReport is the full stats.data payload.
type StatsReport struct {
	ServerID  string     `json:"serverId"`
	Stats     AgentStats `json:"stats"`
	Timestamp time.Time  `json:"timestamp"`
	Uptime    float64    `json:"uptime"`
	Memory    uint64     `json:"memory"`
}
