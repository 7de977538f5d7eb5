package parser

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts covers ISO-8601 and the "YYYY-MM-DD HH:MM:SS[.ms][Z]" variant
// named in the spec. time.Parse tries each in order.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// apacheLayout is Apache's "[day/Mon/year:hour:min:sec zone]" long form.
const apacheLayout = "02/Jan/2006:15:04:05 -0700"

// syslogLayout is the bare "Mon  2 15:04:05" form; the year is supplied by
// the caller since syslog lines never carry one.
const syslogLayout = "Jan 2 15:04:05 2006"

// parseTimestamp accepts ISO-8601, nginx "/"-separated dates, Apache's long
// form, and bare syslog timestamps (year assumed to be the current one at
// parse time). Anything else yields the zero time, and the caller
// substitutes "now".
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	// nginx style uses '/' for the date portion; ISO parsing wants '-'.
	candidate := raw
	if len(candidate) >= 10 && candidate[4] == '/' && candidate[7] == '/' {
		candidate = strings.Replace(candidate, "/", "-", 2)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.UTC(), true
		}
	}

	if t, err := time.Parse(apacheLayout, raw); err == nil {
		return t.UTC(), true
	}

	if t, err := time.Parse(syslogLayout, fmt.Sprintf("%s %d", raw, time.Now().Year())); err == nil {
		return t.UTC(), true
	}

	return time.Time{}, false
}

// resolveTimestamp parses raw and falls back to now when it can't.
func resolveTimestamp(raw string) time.Time {
	if t, ok := parseTimestamp(raw); ok {
		return t
	}
	return time.Now().UTC()
}
