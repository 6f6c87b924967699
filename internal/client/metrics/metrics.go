// Package metrics exposes client-side Prometheus metrics. A nil *Collector is
// valid and records nothing, so components can take one unconditionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediavault"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeInvalid  = "invalid"
)

// Collector holds all client metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	syncs     *prometheus.CounterVec
	indexSize prometheus.Gauge
	assets    *prometheus.CounterVec
}

// NewCollector creates and registers the client metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Requests sent to the vault server or data source.",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		syncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_syncs_total",
				Help:      "Index synchronisations by outcome.",
			},
			[]string{"outcome"},
		),
		indexSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_records",
				Help:      "Records in the current index.",
			},
		),
		assets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asset_fetches_total",
				Help:      "Asset fetches by asset type and outcome.",
			},
			[]string{"asset", "outcome"},
		),
	}

	c.registry.MustRegister(c.requests, c.duration, c.syncs, c.indexSize, c.assets)
	return c
}

// ObserveRequest records one transport call.
func (c *Collector) ObserveRequest(op, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(op, outcome).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SyncFinished records a sync attempt. records is only used on success.
func (c *Collector) SyncFinished(outcome string, records int) {
	if c == nil {
		return
	}
	c.syncs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		c.indexSize.Set(float64(records))
	}
}

// AssetFetched records one asset fetch.
func (c *Collector) AssetFetched(asset, outcome string) {
	if c == nil {
		return
	}
	c.assets.WithLabelValues(asset, outcome).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
