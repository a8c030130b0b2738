// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncadmin",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Sync server API calls broken down by operation and outcome.",
	}, []string{"op", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "syncadmin",
		Subsystem: "upstream",
		Name:      "latency_seconds",
		Help:      "Latency distribution for sync server API calls.",
		Buckets: []float64{
			0.005, 0.01, 0.025, 0.05,
			0.1, 0.25, 0.5, 1,
			2.5, 5, 10,
		},
	}, []string{"op", "outcome"})

	pagesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncadmin",
		Subsystem: "feed",
		Name:      "pages_loaded_total",
		Help:      "Pages appended to paginated views, by view name.",
	}, []string{"view"})

	badgeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "syncadmin",
		Subsystem: "badges",
		Name:      "failures_total",
		Help:      "Membership badge rows that failed to load.",
	})

	mountedViews = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "syncadmin",
		Subsystem: "views",
		Name:      "mounted",
		Help:      "Views currently mounted in the registry.",
	})
)

// Outcome values recorded for upstream calls.
const (
	OutcomeOK      = "ok"
	OutcomeAPI     = "api_error"
	OutcomeNetwork = "network_error"
)

// ObserveUpstream records one sync server call.
func ObserveUpstream(op, outcome string, latency time.Duration) {
	labels := prometheus.Labels{
		"op":      op,
		"outcome": outcome,
	}
	upstreamRequests.With(labels).Inc()
	upstreamLatency.With(labels).Observe(latency.Seconds())
}

// PageLoaded counts one page appended to the named view.
func PageLoaded(view string) {
	pagesLoaded.WithLabelValues(view).Inc()
}

// BadgeFailed counts one failed badge row.
func BadgeFailed() {
	badgeFailures.Inc()
}

// SetMountedViews reports the registry size.
func SetMountedViews(n int) {
	mountedViews.Set(float64(n))
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
