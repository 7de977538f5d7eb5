package parser

import (
	"strings"
	"time"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// extraction is the common shape every format-specific extractor fills in
// before urgency and semantics, which are format-independent, are derived.
type extraction struct {
	Timestamp time.Time
	Level     types.Level
	Message   string
	Metadata  map[string]string
	Parser    string
}

// attemptFunc is one entry in the dispatch table: a pure function that
// reports whether its format's pattern matched line.
type attemptFunc func(line string) (extraction, bool)

// dispatchTable is the tagged-variant dispatch table named in the design
// notes: format selection never grows into a parser class hierarchy.
var dispatchTable = map[types.LogFormat]attemptFunc{
	types.FormatJSON:   parseJSON,
	types.FormatNginx:  parseNginx,
	types.FormatApache: parseApache,
	types.FormatSyslog: parseSyslog,
}

// detectFormat routes an auto-typed line to a concrete format by content,
// per the order given in the spec.
func detectFormat(line string) types.LogFormat {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return types.FormatJSON
	case strings.Contains(line, "nginx"):
		return types.FormatNginx
	case strings.Contains(line, "apache"):
		return types.FormatApache
	case syslogPrefixRe.MatchString(line):
		return types.FormatSyslog
	default:
		return types.FormatGeneric
	}
}

// Parse converts one raw line into a ParsedEvent. It never fails: an
// explicit format that doesn't match its pattern, or auto-detection that
// lands on generic, both fall through to the generic extractor, which has
// its own internal fallback.
func Parse(line string, spec types.LogFileSpec) types.ParsedEvent {
	format := spec.Type
	if format == "" {
		format = types.FormatAuto
	}
	if format == types.FormatAuto {
		format = detectFormat(line)
	}

	ex, ok := extraction{}, false
	if attempt, exists := dispatchTable[format]; exists {
		ex, ok = attempt(line)
	}
	if !ok {
		ex, _ = parseGeneric(line)
	}

	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}
	if ex.Level == "" {
		ex.Level = types.LevelInfo
	}

	semantics := extractSemantics(ex.Message)

	return types.ParsedEvent{
		Timestamp:    ex.Timestamp,
		Level:        ex.Level,
		Message:      ex.Message,
		OriginalLine: line,
		Parser:       types.LogFormat(ex.Parser),
		Metadata:     ex.Metadata,
		Semantics:    semantics,
		Urgency:      computeUrgency(ex.Level, semantics, line),
	}
}
