package agent

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// currentPlatform gathers real host facts for the AgentIdentity sent on
// register. gopsutil failures degrade to Go's own runtime facts rather
// than aborting registration.
func currentPlatform() types.Platform {
	hostname, _ := os.Hostname()
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		hostname = info.Hostname
	}

	var memBytes uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		memBytes = vm.Total
	}

	return types.Platform{
		Hostname:       hostname,
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		RuntimeVersion: runtime.Version(),
		MemoryBytes:    memBytes,
	}
}
