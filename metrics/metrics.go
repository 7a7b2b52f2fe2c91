// Package metrics exposes Prometheus metrics for the download path.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector wraps the Prometheus metrics for the service, registered on a
// private registry so the handler only serves our own metrics.
type Collector struct {
	registry *prometheus.Registry

	DownloadsTotal  *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// NewCollector creates a Collector with its own registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "datagateway"
	}
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		DownloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Total number of download requests by backend and status code",
		}, []string{"backend", "status"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Duration of metadata index resolution in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.DownloadsTotal)
	reg.MustRegister(c.ResolveDuration)
	return c
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordDownload increments the download counter for one finished request.
func (c *Collector) RecordDownload(backend, status string) {
	c.DownloadsTotal.WithLabelValues(backend, status).Inc()
}

// ObserveResolveDuration records how long an index resolution took.
func (c *Collector) ObserveResolveDuration(d time.Duration) {
	c.ResolveDuration.Observe(d.Seconds())
}
