package agent

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// probeSet is the fixed set of paths consulted when the configuration
// names no log files at all.
var probeSet = []string{
	"/var/log/syslog",
	"/var/log/messages",
	"/var/log/nginx/error.log",
	"/var/log/apache2/error.log",
	"/var/log/auth.log",
}

// discoverLogFiles returns configured when non-empty, otherwise the
// subset of probeSet that exists on disk, each tagged with a type
// inferred from its path (see inferFormatFromPath).
func discoverLogFiles(configured []types.LogFileSpec) []types.LogFileSpec {
	if len(configured) > 0 {
		return configured
	}

	var found []types.LogFileSpec
	for _, path := range probeSet {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		found = append(found, types.LogFileSpec{Path: path, Type: inferFormatFromPath(path)})
	}
	return found
}

// inferFormatFromPath infers a format from the full lowercased path rather
// than just the basename: conventional nginx/apache log files are named
// error.log/access.log inside a directory that carries the distinguishing
// name, so a basename-only check never matches them.
func inferFormatFromPath(path string) types.LogFormat {
	lower := strings.ToLower(path)
	base := filepath.Base(lower)
	switch {
	case strings.Contains(lower, "nginx"):
		return types.FormatNginx
	case strings.Contains(lower, "apache"):
		return types.FormatApache
	case strings.Contains(base, "syslog"), strings.Contains(base, "messages"):
		return types.FormatSyslog
	case strings.HasSuffix(base, ".json"):
		return types.FormatJSON
	default:
		return types.FormatAuto
	}
}
