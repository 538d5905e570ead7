// Package metrics records tool call and process statistics in a private
// Prometheus registry and optionally exposes them over HTTP.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Private constants (alphabetical)
const (
	namespace       = "mediamcp"
	shutdownTimeout = 5 * time.Second
)

// Public types (alphabetical)

// Recorder implements ffmpeg.ProcessObserver and tools.CallRecorder.
type Recorder struct {
	registry        *prometheus.Registry
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	processDuration *prometheus.HistogramVec
	launchFailures  *prometheus.CounterVec
}

// Private functions (alphabetical)

// programLabel keeps label cardinality low: only the base name of argv[0].
func programLabel(program string) string {
	base := filepath.Base(program)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Public functions (alphabetical)

// New creates a Recorder with its own registry, including the Go runtime
// and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Wall time of tool calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 4, 8),
		}, []string{"tool"}),
		processDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_duration_seconds",
			Help:      "Wall time of finished external processes.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 9),
		}, []string{"program"}),
		launchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_launch_failures_total",
			Help:      "External processes that could not be started.",
		}, []string{"program"}),
	}
	r.registry.MustRegister(
		r.toolCalls,
		r.toolDuration,
		r.processDuration,
		r.launchFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Public methods (alphabetical)

// Handler returns the exposition handler for the private registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveLaunchFailure counts a process that could not be started.
func (r *Recorder) ObserveLaunchFailure(program string) {
	r.launchFailures.WithLabelValues(programLabel(program)).Inc()
}

// ObserveProcess records the wall time of a finished process.
func (r *Recorder) ObserveProcess(program string, elapsed time.Duration) {
	r.processDuration.WithLabelValues(programLabel(program)).Observe(elapsed.Seconds())
}

// ObserveToolCall counts a finished tool call and records its duration.
func (r *Recorder) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	r.toolCalls.WithLabelValues(tool, outcome).Inc()
	r.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger hclog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
