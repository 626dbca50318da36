package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/newsradio/internal/agent"
	"github.com/user/newsradio/internal/backend"
	"github.com/user/newsradio/internal/bridge"
	"github.com/user/newsradio/internal/collector"
	"github.com/user/newsradio/internal/config"
	"github.com/user/newsradio/internal/health"
	"github.com/user/newsradio/internal/httpapi"
	"github.com/user/newsradio/internal/session"
	"github.com/user/newsradio/internal/sources"
	"github.com/user/newsradio/internal/telegram"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the newsradio daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "newsradio.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func newSourceStore(cfg *config.Config) *sources.Store {
	src := sources.NewStore()
	src.Set("rss", cfg.Sources.RSS)
	src.Set("twitter", cfg.Sources.Twitter)
	src.Set("reddit", cfg.Sources.Reddit)
	return src
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Write PID file
	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Backend gateway and source selection
	gateway := backend.NewClient(cfg.Backend.URL)
	src := newSourceStore(cfg)

	// Session store and collection pipeline
	store := session.NewStore()
	col := collector.New(gateway, src)
	payload, err := collector.NewPayloadBuilder(cfg.Payload.Encoding, cfg.Payload.MaxTokens)
	if err != nil {
		return fmt.Errorf("create payload builder: %w", err)
	}

	// Voice runtime: the console stands in for the device audio session,
	// reading topic requests line by line.
	rt := agent.NewConsoleRuntime(os.Stdin, os.Stdout)

	// Bridge
	br := bridge.New(rt, col, payload, store, cfg.Agent.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Health monitor
	monitor := health.New(gateway, cfg.Health.Interval, nil)
	if err := monitor.Start(); err != nil {
		return fmt.Errorf("start health monitor: %w", err)
	}
	defer monitor.Stop()

	slog.Info("newsradio started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"backend_url", cfg.Backend.URL,
		"health_interval", cfg.Health.Interval,
		"pid_file", pidPath,
	)

	// Observation API
	if cfg.HTTP.Enabled {
		apiSrv := httpapi.NewServer(store, src, br, monitor)
		httpServer := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: apiSrv,
		}
		go func() {
			slog.Info("observation API started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("observation API error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	// Telegram adapter
	if cfg.Telegram.Token != "" {
		adapter, err := telegram.New(cfg.Telegram.Token, br, store, src, monitor)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		go adapter.Start(ctx)
		slog.Info("telegram adapter started")
	} else {
		slog.Warn("telegram adapter disabled (no token)")
	}

	// Start the voice session. A missing agent ID leaves the daemon running
	// in the error state so attached surfaces can report it.
	if err := br.Start(ctx); err != nil {
		if errors.Is(err, bridge.ErrNoAgentID) {
			slog.Warn("no agent ID configured; session not started",
				"hint", "set agent.id via 'newsradio config set agent.id <id>' or NEWSRADIO_AGENT_ID")
		} else {
			slog.Error("failed to start session", "error", err)
		}
	}
	defer br.Stop(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			// Clean up PID file before re-exec
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				// Re-write PID file since we failed to re-exec
				if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
					slog.Error("failed to re-write PID file", "error", writeErr)
				}
				continue
			}
		}
		// SIGINT or SIGTERM
		slog.Info("shutting down", "signal", sig)
		return nil
	}
}
