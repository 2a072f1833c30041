// Package metrics holds the Prometheus collectors for the TripWit API.
// Each Collector owns its registry, so tests can build as many as they like
// without clashing on the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/tripwit/internal/domain"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	TripsCreated  prometheus.Counter
	PhotosMatched *prometheus.CounterVec
	MatchDistance prometheus.Histogram
}

// NewCollector creates a collector whose metric names are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TripsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trips_created_total",
				Help:      "Total number of trips created",
			},
		),
		PhotosMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "photos_matched_total",
				Help:      "Photos run through the matcher, by outcome and confidence",
			},
			[]string{"outcome", "confidence"},
		),
		MatchDistance: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "photo_match_distance_meters",
				Help:      "Distance from each matched photo to its stop",
				Buckets:   []float64{10, 25, 50, 100, 200, 300, 400},
			},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.TripsCreated,
		c.PhotosMatched,
		c.MatchDistance,
	)
	return c
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route, status string, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TripCreated counts a newly created trip.
func (c *Collector) TripCreated() {
	c.TripsCreated.Inc()
}

// RecordMatches counts every result of a matching run. Unmatched photos are
// counted under outcome "unmatched" and do not feed the distance histogram.
func (c *Collector) RecordMatches(results []domain.PhotoMatchResult) {
	for _, r := range results {
		if r.MatchedStop == nil {
			c.PhotosMatched.WithLabelValues("unmatched", string(r.Confidence)).Inc()
			continue
		}
		c.PhotosMatched.WithLabelValues("matched", string(r.Confidence)).Inc()
		c.MatchDistance.Observe(r.DistanceMeters)
	}
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
