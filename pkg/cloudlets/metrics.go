package cloudlets

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics records per-operation API call counts and latencies.
//
// Metrics:
//   - cloudlet_api_requests_total: request count by operation and status
//   - cloudlet_api_request_duration_seconds: request duration by operation
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers API metrics with the provided registry.
// A nil registry allocates a private one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cloudlet",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of Cloudlets API requests",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cloudlet",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of Cloudlets API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// observe records one finished API call. Safe on a nil receiver so the
// client works without metrics wired in.
func (m *Metrics) observe(operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Report writes a compact per-operation summary of the gathered metrics,
// used by the CLI in verbose mode after a command finishes.
func (m *Metrics) Report(w io.Writer) error {
	if m == nil {
		return nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, family := range families {
		if family.GetName() != "cloudlet_api_requests_total" {
			continue
		}

		lines := make([]string, 0, len(family.GetMetric()))
		for _, metric := range family.GetMetric() {
			var op, status string
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "operation":
					op = label.GetValue()
				case "status":
					status = label.GetValue()
				}
			}
			lines = append(lines, fmt.Sprintf("  %s status=%s count=%.0f", op, status, metric.GetCounter().GetValue()))
		}
		sort.Strings(lines)

		fmt.Fprintln(w, "API calls:")
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}

	return nil
}

// requestCount returns the counter value for one operation/status pair.
// Test helper.
func (m *Metrics) requestCount(operation, status string) float64 {
	families, err := m.registry.Gather()
	if err != nil {
		return 0
	}
	for _, family := range families {
		if family.GetName() != "cloudlet_api_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, operation, status) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, operation, status string) bool {
	var op, st string
	for _, label := range metric.GetLabel() {
		switch label.GetName() {
		case "operation":
			op = label.GetValue()
		case "status":
			st = label.GetValue()
		}
	}
	return op == operation && st == status
}
