package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// Metrics collects session and catalog counters on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted *prometheus.CounterVec
	SessionsEnded   *prometheus.CounterVec
	ActiveSessions  *prometheus.GaugeVec
	CatalogReloads  *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_sessions_started_total",
				Help: "Total number of interactive sessions started",
			},
			[]string{"kind"},
		),
		SessionsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_sessions_ended_total",
				Help: "Total number of interactive sessions ended, by outcome",
			},
			[]string{"kind", "outcome"},
		),
		ActiveSessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bot_sessions_active",
				Help: "Number of sessions currently waiting on players",
			},
			[]string{"kind"},
		),
		CatalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_catalog_reloads_total",
				Help: "Total number of catalog reload attempts",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.SessionsStarted,
		m.SessionsEnded,
		m.ActiveSessions,
		m.CatalogReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SessionStarted implements service.SessionObserver.
func (m *Metrics) SessionStarted(kind entities.SessionKind) {
	m.SessionsStarted.WithLabelValues(string(kind)).Inc()
	m.ActiveSessions.WithLabelValues(string(kind)).Inc()
}

// SessionEnded implements service.SessionObserver.
func (m *Metrics) SessionEnded(kind entities.SessionKind, outcome entities.Outcome) {
	m.SessionsEnded.WithLabelValues(string(kind), string(outcome)).Inc()
	m.ActiveSessions.WithLabelValues(string(kind)).Dec()
}

// CatalogReloaded implements service.ReloadObserver.
func (m *Metrics) CatalogReloaded(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CatalogReloads.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	}
}
