// Package metrics exposes prometheus counters for the moderation ledger.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

var (
	ModActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dutymeter_mod_actions_total",
		Help: "Moderation actions recorded, by kind",
	}, []string{"kind"})

	PointAdjustments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutymeter_point_adjustments_total",
		Help: "Point balance adjustments applied",
	})

	AuditRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutymeter_audit_runs_total",
		Help: "Quota audit firings completed",
	})

	AuditSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutymeter_audit_skipped_total",
		Help: "Quota audit firings skipped due to an audit already running",
	})

	Shortfalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutymeter_shortfalls_total",
		Help: "Shortfall notifications emitted by the quota audit",
	})

	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutymeter_delivery_failures_total",
		Help: "Direct messages that could not be delivered",
	})
)

// Serve exposes /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			slog.Error("Failed to shutdown metrics listener", log.ErrAttr(errShutdown))
		}
	}()

	if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
		slog.Error("Metrics listener failed", log.ErrAttr(errServe))
	}
}
