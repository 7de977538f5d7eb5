package parser

import "regexp"

// syslogRe matches "Mon Day HH:MM:SS host svc[pid]?: body". There is no
// level token; the level is derived from the body text.
var syslogRe = regexp.MustCompile(`^(\w{3}\s+\d{1,2} \d{2}:\d{2}:\d{2}) (\S+) (\S+?)(?:\[(\d+)\])?: (.+)$`)

// syslogPrefixRe is the looser shape used purely for auto-detection, per
// the spec's dispatch rule.
var syslogPrefixRe = regexp.MustCompile(`^\w{3}\s+\d{1,2} \d{2}:\d{2}:\d{2} \S+ \S+`)

func parseSyslog(line string) (extraction, bool) {
	m := syslogRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}

	meta := map[string]string{"hostname": m[2], "service": m[3]}
	if m[4] != "" {
		meta["pid"] = m[4]
	}

	return extraction{
		Timestamp: resolveTimestamp(m[1]),
		Level:     detectLevelFromContent(m[5]),
		Message:   m[5],
		Metadata:  meta,
		Parser:    "syslog",
	}, true
}
