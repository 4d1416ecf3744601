// Package metrics exposes Prometheus counters for the message pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	InboundMessages    *prometheus.CounterVec
	Decisions          *prometheus.CounterVec
	GenerationFailures prometheus.Counter
	GenerationSilences prometheus.Counter
}

func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InboundMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ayaka_inbound_messages_total",
			Help: "Inbound free-form messages by conversation scope.",
		}, []string{"scope"}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ayaka_engagement_decisions_total",
			Help: "Engagement policy outcomes by mode.",
		}, []string{"mode"}),
		GenerationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ayaka_generation_failures_total",
			Help: "Generation backend calls that returned an error.",
		}),
		GenerationSilences: factory.NewCounter(prometheus.CounterOpts{
			Name: "ayaka_generation_silences_total",
			Help: "Generation results suppressed by the silence contract.",
		}),
	}
}

// Serve starts the Prometheus scrape endpoint. Blocks; run in a goroutine.
func Serve(addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics server stopped", zap.Error(err), zap.String("addr", addr))
	}
}
