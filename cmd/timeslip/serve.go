package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/platform/tui"
	"github.com/vovakirdan/timeslip/internal/telemetry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the timeslip SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a level picker menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.timeslip/host_key

Metrics:
  --metrics exposes Prometheus metrics (sessions, rewinds, runs) on
  /metrics at the given address.

Examples:
  timeslip serve                           # Listen on :23234 with auto-generated key
  timeslip serve --ssh :2222               # Listen on port 2222
  timeslip serve --host-key ./my_host_key  # Use specific host key
  timeslip serve --metrics :9090           # Also serve /metrics

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Address for the Prometheus /metrics endpoint (disabled if empty)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Debug = flagDebug

	if gameCfg, err := config.Load(flagConfig); err == nil {
		cfg.HoldWindow = time.Duration(gameCfg.Rewind.HoldWindowMs) * time.Millisecond
	} else {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if flagMetricsAddr != "" {
		cfg.Metrics = telemetry.New(prometheus.NewRegistry())
		go serveMetrics(flagMetricsAddr, cfg.Metrics)
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting timeslip SSH server on %s\n", cfg.Address)
	if flagMetricsAddr != "" {
		fmt.Printf("Metrics on http://%s/metrics\n", flagMetricsAddr)
	}
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, m *telemetry.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
	}
}
