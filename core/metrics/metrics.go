package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geonotes/core/logger"
	"log/slog"
)

var (
	// UpdatesHandled counts processed updates by handler name and status.
	UpdatesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_handled_total",
			Help: "Count of processed updates",
		},
		[]string{"handler", "status"},
	)
	// FlowOutcomes counts conversation step outcomes by workflow.
	FlowOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_flow_outcomes_total",
			Help: "Count of conversation step outcomes",
		},
		[]string{"workflow", "outcome"},
	)
	// ActiveSessions tracks the number of pending conversations.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_sessions",
			Help: "Current number of pending conversations",
		},
	)
	// MessagesSent counts outbound messages by type.
	MessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_sent_total",
			Help: "Count of sent messages",
		},
		[]string{"type"},
	)
)

// Register installs all collectors into the default registry.
func Register() {
	prometheus.MustRegister(
		UpdatesHandled,
		FlowOutcomes,
		ActiveSessions,
		MessagesSent,
	)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.L.With("component", "metrics").Info("metrics listener started",
		slog.String("event", "metrics.listen"),
		slog.String("addr", addr),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.With("component", "metrics").Error("metrics listener failed",
			slog.String("event", "metrics.listen"),
			slog.String("err", err.Error()),
		)
	}
}
