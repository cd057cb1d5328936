package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tasks"

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	TaskOperations *prometheus.CounterVec
}

// New creates a private registry with the process/Go collectors and the
// service's own metrics registered on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TaskOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Task service operations by operation and result.",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.TaskOperations)
	return m
}

// ObserveTaskOperation counts one service call. Safe on a nil receiver.
func (m *Metrics) ObserveTaskOperation(operation, result string) {
	if m == nil {
		return
	}
	m.TaskOperations.WithLabelValues(operation, result).Inc()
}
