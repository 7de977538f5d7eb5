package parser

import "regexp"

// nginxRe matches "YYYY/MM/DD HH:MM:SS [level] pid#tid: (*conn )?body".
var nginxRe = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) \[(\w+)\] (\d+)#(\d+): (?:\*(\d+) )?(.+)$`)

func parseNginx(line string) (extraction, bool) {
	m := nginxRe.FindStringSubmatch(line)
	if m == nil {
		return extraction{}, false
	}

	meta := map[string]string{"pid": m[3], "tid": m[4]}
	if m[5] != "" {
		meta["conn"] = m[5]
	}

	return extraction{
		Timestamp: resolveTimestamp(m[1]),
		Level:     normalizeLevel(m[2]),
		Message:   m[6],
		Metadata:  meta,
		Parser:    "nginx",
	}, true
}
