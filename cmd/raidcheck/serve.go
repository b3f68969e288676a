package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"raidcheck/internal/check"
	"raidcheck/internal/config"
	"raidcheck/internal/metrics"
	"raidcheck/internal/runner"
	"raidcheck/internal/watermark"
	"raidcheck/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the check periodically and serve Prometheus metrics",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(2)
		}

		rn := runner.NewExecRunner(cfg.StorcliPath, "")
		if !rn.Available() {
			slog.Error("no storcli binary found, install storcli64 or set storcli_path")
			os.Exit(2)
		}

		srv := newServer(cfg, rn)
		if err := srv.run(cmd.Context()); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(2)
		}
	},
}

// server holds the periodic check loop state. The watermark file is
// never advanced here: a periodic loop saving it would mask events
// from the cron-driven check reports. After the first cycle new events
// are tracked relative to process start instead.
type server struct {
	cfg      *config.Config
	runner   runner.Runner
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	started  time.Time

	mu   sync.RWMutex
	last *types.HealthResponse
}

func newServer(cfg *config.Config, rn runner.Runner) *server {
	reg := prometheus.NewRegistry()
	return &server{
		cfg:      cfg,
		runner:   rn,
		registry: reg,
		metrics:  metrics.New(reg),
		started:  time.Now(),
	}
}

func (s *server) run(ctx context.Context) error {
	s.metrics.Up.Set(1)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/json", s.handleHealthJSON)

	httpSrv := &http.Server{Addr: s.cfg.Serve.Listen, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.cfg.Serve.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	interval := time.Duration(s.cfg.Serve.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	since, err := watermark.NewFileStore(s.cfg.WatermarkPath).Load()
	if err != nil {
		slog.Warn("failed to load watermark", "error", err)
	}
	s.cycle(since)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.cycle(s.started)
		}
	}
}

// cycle runs one check and republishes metrics and the health payload
func (s *server) cycle(since time.Time) {
	checker := check.New(s.runner, s.cfg.AllowLists, s.cfg.SupportedDrivers)
	result := checker.CheckHost(since, s.cfg.IgnoreControllers)

	s.metrics.Update(&result)

	hostname, _ := os.Hostname()
	resp := result.HealthResponse("raidcheck", version, hostname)

	s.mu.Lock()
	s.last = resp
	s.mu.Unlock()

	slog.Info("check cycle complete", "pass", result.Pass,
		"controllers", len(result.Controllers), "findings", len(result.Findings()))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		http.Error(w, "no check completed yet", http.StatusServiceUnavailable)
		return
	}
	if !last.Pass {
		http.Error(w, fmt.Sprintf("fail (%d findings)", last.Summary.Findings),
			http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, "ok")
}

func (s *server) handleHealthJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		http.Error(w, `{"status":"starting"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(last)
}
