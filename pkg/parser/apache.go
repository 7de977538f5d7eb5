package parser

import "regexp"

// apacheRe matches "[ts] [level] ([pid N] )?([client ...] )?body".
var apacheRe = regexp.MustCompile(`^\[([^\]]+)\] \[(\w+)\](?: \[pid (\d+)\])?(?: \[client ([^\]]+)\])?\s*(.+)$`)

func parseApache(line string) (extraction, bool) {
	m := apacheRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}

	meta := map[string]string{}
	if m[3] != "" {
		meta["pid"] = m[3]
	}
	if m[4] != "" {
		meta["client"] = m[4]
	}

	return extraction{
		Timestamp: resolveTimestamp(m[1]),
		Level:     normalizeLevel(m[2]),
		Message:   m[5],
		Metadata:  meta,
		Parser:    "apache",
	}, true
}
