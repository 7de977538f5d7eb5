package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonTimestampKeys and friends list the field-name aliases the spec
// accepts, tried in order.
var (
	jsonTimestampKeys = []string{"timestamp", "time", "@timestamp"}
	jsonLevelKeys     = []string{"level", "severity"}
	jsonMessageKeys   = []string{"message", "msg", "text"}
)

// parseJSON decodes line as a JSON object and extracts timestamp/level/
// message by the first matching key alias. Every other top-level field
// with a non-empty value is copied into metadata as a string (service,
// hostname, trace id, ...; nested values are rendered with fmt.Sprint). A
// decode failure reports ok=false so the caller falls through to generic.
func parseJSON(line string) (extraction, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return extraction{}, false
	}

	ex := extraction{Parser: "json", Metadata: map[string]string{}}

	consumed := map[string]bool{}
	for _, key := range jsonTimestampKeys {
		if v, ok := raw[key]; ok {
			ex.Timestamp = resolveTimestamp(stringify(v))
			consumed[key] = true
			break
		}
	}

	for _, key := range jsonLevelKeys {
		if v, ok := raw[key]; ok {
			ex.Level = normalizeLevel(stringify(v))
			consumed[key] = true
			break
		}
	}

	for _, key := range jsonMessageKeys {
		if v, ok := raw[key]; ok {
			ex.Message = stringify(v)
			consumed[key] = true
			break
		}
	}

	for key, v := range raw {
		if consumed[key] {
			continue
		}
		if s := stringify(v); s != "" {
			ex.Metadata[key] = s
		}
	}

	if ex.Message == "" {
		ex.Message = strings.TrimSpace(line)
	}

	return ex, true
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
