package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sentrylog/sentrylog/pkg/broadcast"
	"github.com/sentrylog/sentrylog/pkg/hub"
	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/restapi"
	"github.com/sentrylog/sentrylog/pkg/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sentrylog-server",
	Short: "sentrylog central server: agent registration, ingestion, and dashboard surface",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().Int("dashboard-port", 3001, "REST API port for dashboard clients")
	rootCmd.Flags().Int("agent-port", 8080, "WebSocket port agents connect to")
	rootCmd.Flags().Int("max-errors", 1000, "Maximum number of deduplicated errors retained in memory")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("log-json", false, "Output logs in JSON format")
}

func runServer(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	jsonOutput, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOutput})

	dashboardPort, _ := cmd.Flags().GetInt("dashboard-port")
	agentPort, _ := cmd.Flags().GetInt("agent-port")
	maxErrors, _ := cmd.Flags().GetInt("max-errors")

	st := store.New(store.Config{MaxErrors: maxErrors})
	bc := broadcast.NewHub()
	h := hub.New(st, bc)
	rest := restapi.New(h, bc)

	agentAddr := fmt.Sprintf(":%d", agentPort)
	dashboardAddr := fmt.Sprintf(":%d", dashboardPort)
	pushAddr := fmt.Sprintf(":%d", dashboardPort+1)

	agentMux := http.NewServeMux()
	agentMux.HandleFunc("/", h.ServeAgent)
	agentSrv := &http.Server{Addr: agentAddr, Handler: agentMux}

	dashboardSrv := &http.Server{Addr: dashboardAddr, Handler: rest.Handler()}
	pushSrv := &http.Server{Addr: pushAddr, Handler: rest.PushHandler()}

	errCh := make(chan error, 3)
	go func() {
		log.Logger.Info().Str("addr", agentAddr).Msg("agent transport listening")
		if err := agentSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("agent transport: %w", err)
		}
	}()
	go func() {
		log.Logger.Info().Str("addr", dashboardAddr).Msg("dashboard REST listening")
		if err := dashboardSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("dashboard server: %w", err)
		}
	}()
	go func() {
		log.Logger.Info().Str("addr", pushAddr).Msg("dashboard push transport listening")
		if err := pushSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("dashboard push server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Logger.Info().Msg("shutting down")
	case err := <-errCh:
		log.Logger.Error().Err(err).Msg("fatal startup error")
		return err
	}

	_ = agentSrv.Close()
	_ = dashboardSrv.Close()
	_ = pushSrv.Close()
	h.Close()
	return nil
}
