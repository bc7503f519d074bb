// Package metrics exposes orchestrator counters and gauges to Prometheus.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const DefaultNamespace = "h3dstudio"

type Collector struct {
	registry *prometheus.Registry

	queueDepth   prometheus.Gauge
	inFlight     prometheus.Gauge
	processing   prometheus.Gauge
	submissions  *prometheus.CounterVec
	polls        *prometheus.CounterVec
	terminalJobs *prometheus.CounterVec
	tickDuration prometheus.Histogram

	logger *zap.Logger
}

func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		logger:   logger.With(zap.String("component", "metrics")),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_queue_depth",
			Help:      "Generation requests waiting for admission",
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_jobs_in_flight",
			Help:      "Generation jobs currently polled",
		}),
		processing: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_processing_count",
			Help:      "Admission counter compared against the concurrency cap",
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_submissions_total",
			Help:      "Generation submissions by outcome",
		}, []string{"outcome"}),
		polls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_polls_total",
			Help:      "Creation status fetches by outcome",
		}, []string{"outcome"}),
		terminalJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_jobs_finished_total",
			Help:      "Jobs that left tracking, by final status",
		}, []string{"status"}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_tick_duration_seconds",
			Help:      "Time spent in one orchestrator tick",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// SetQueue records the orchestrator state after a tick or enqueue.
func (c *Collector) SetQueue(queued, processing, inFlight int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(queued))
	c.processing.Set(float64(processing))
	c.inFlight.Set(float64(inFlight))
}

func (c *Collector) RecordSubmission(ok bool) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome(ok)).Inc()
}

func (c *Collector) RecordPoll(ok bool) {
	if c == nil {
		return
	}
	c.polls.WithLabelValues(outcome(ok)).Inc()
}

func (c *Collector) RecordFinished(status string) {
	if c == nil {
		return
	}
	c.terminalJobs.WithLabelValues(status).Inc()
}

func (c *Collector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.tickDuration.Observe(d.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	c.logger.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
