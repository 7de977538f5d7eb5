package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrylog/sentrylog/pkg/agent"
	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sentrylog-agent",
	Short: "sentrylog agent: tails configured log files and streams urgent errors to the server",
	RunE:  runAgent,
}

func init() {
	rootCmd.Flags().String("server-id", "", "Unique id for this agent (generated if empty)")
	rootCmd.Flags().String("server-name", "", "Display name for this agent")
	rootCmd.Flags().String("server-url", "ws://localhost:8080/", "WebSocket URL of the central server's agent transport")
	rootCmd.Flags().StringSlice("log-file", nil, "path[:type] of a log file to tail; repeatable. Auto-discovered when omitted")
	rootCmd.Flags().Int("urgency-threshold", 5, "Minimum urgency for an ERROR event to be forwarded upstream")
	rootCmd.Flags().Int64("stats-every-lines", 10, "How many processed lines trigger a stats report")
	rootCmd.Flags().Int("max-reconnect-attempts", -1, "Give up after this many further dial attempts following a failed connect (0 or -1 = unlimited)")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("log-json", false, "Output logs in JSON format")
}

func runAgent(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	jsonOutput, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOutput})

	serverID, _ := cmd.Flags().GetString("server-id")
	serverName, _ := cmd.Flags().GetString("server-name")
	serverURL, _ := cmd.Flags().GetString("server-url")
	rawLogFiles, _ := cmd.Flags().GetStringSlice("log-file")
	urgencyThreshold, _ := cmd.Flags().GetInt("urgency-threshold")
	statsEveryLines, _ := cmd.Flags().GetInt64("stats-every-lines")
	maxAttempts, _ := cmd.Flags().GetInt("max-reconnect-attempts")

	if serverName == "" {
		serverName, _ = os.Hostname()
	}

	a := agent.New(agent.Config{
		ServerID:         serverID,
		ServerName:       serverName,
		ServerURL:        serverURL,
		LogFiles:         parseLogFileFlags(rawLogFiles),
		UrgencyThreshold: urgencyThreshold,
		StatsEveryLines:  statsEveryLines,
		MaxAttempts:      maxAttempts,
	})
	a.Start()

	log.Logger.Info().Str("serverName", serverName).Str("serverUrl", serverURL).Msg("agent started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Logger.Info().Msg("shutting down")
	a.Stop()
	time.Sleep(100 * time.Millisecond) // let in-flight sends drain
	return nil
}

// parseLogFileFlags turns "path" or "path:type" flag values into
// LogFileSpecs; an omitted or unrecognized type defaults to auto.
func parseLogFileFlags(raw []string) []types.LogFileSpec {
	specs := make([]types.LogFileSpec, 0, len(raw))
	for _, r := range raw {
		path, format := r, string(types.FormatAuto)
		for i := len(r) - 1; i >= 0; i-- {
			if r[i] == ':' {
				path, format = r[:i], r[i+1:]
				break
			}
		}
		switch types.LogFormat(format) {
		case types.FormatNginx, types.FormatApache, types.FormatJSON, types.FormatSyslog, types.FormatAuto:
		default:
			format = string(types.FormatAuto)
		}
		specs = append(specs, types.LogFileSpec{Path: path, Type: types.LogFormat(format)})
	}
	return specs
}
