// Package metrics provides the Prometheus registry reference for the user list
// collector. All metrics are defined in their respective packages (client,
// pagination) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Prefix is shared by every metric this module registers.
const Prefix = "userlist_"

// Registry is the default Prometheus registry used by the collector.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back the metrics registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// Snapshot sums every counter and histogram sample count whose name starts
// with Prefix, keyed by metric name.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	snapshot := make(map[string]float64)
	for _, family := range families {
		name := family.GetName()
		if !strings.HasPrefix(name, Prefix) {
			continue
		}

		var total float64
		for _, m := range family.GetMetric() {
			total += sampleValue(family.GetType(), m)
		}
		snapshot[name] = total
	}

	return snapshot, nil
}

func sampleValue(kind dto.MetricType, m *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - userlist_requests_total{status} (Counter): Requests by HTTP status, or "network_error"
//   - userlist_request_duration_seconds (Histogram): Request duration
//   - userlist_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, unexpected)
//
// Collector Metrics (pkg/pagination):
//   - userlist_pages_fetched_total (Counter): Pages fetched and decoded
//   - userlist_records_matched_total (Counter): Users inside the requested id range
//   - userlist_page_cap_reached_total (Counter): Collections stopped by MaxPages
//   - userlist_validation_failures_total{reason} (Counter): Rejected id ranges
//
// Example Prometheus Queries:
//
//   # Pages per collection
//   rate(userlist_pages_fetched_total[5m]) / rate(userlist_requests_total{status="200"}[5m])
//
//   # Upstream error rate
//   rate(userlist_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(userlist_request_duration_seconds_bucket[5m]))
