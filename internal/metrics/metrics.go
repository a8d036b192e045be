// Package metrics registers the Prometheus counters and histogram the session
// layer updates on every request, grounded on the exporter pattern in
// runZeroInc-conniver and runZeroInc-sockstats' pkg/exporter package.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters and histogram a Session reports against.
// Callers register it with their own *prometheus.Registry (or
// prometheus.DefaultRegisterer) and pass it to session.New.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	DecodeErrors    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New builds an unregistered Metrics set. Register() attaches it to a
// registry.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnet",
			Name:      "requests_total",
			Help:      "Total Mnet requests issued, by packet type and outcome.",
		}, []string{"packet_type", "outcome"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mnet",
			Name:      "decode_errors_total",
			Help:      "Total typed-value decode errors, by reason.",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mnet",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of Mnet request/response pairs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"packet_type"}),
	}
}

// Register attaches every collector in m to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.RequestsTotal, m.DecodeErrors, m.RequestDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
