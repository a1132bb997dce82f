package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "endurance",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the activity provider, by endpoint and HTTP status.",
		},
		[]string{"endpoint", "status"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "endurance",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to the activity provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "endurance",
			Name:      "rate_limited_total",
			Help:      "HTTP 429 responses received from the activity provider.",
		},
	)
	loads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "endurance",
			Name:      "loads_total",
			Help:      "Activity table loads, by the source that served them.",
		},
		[]string{"source"},
	)
)

// Register adds all collectors to reg. Collectors work unregistered too, so
// the TUI never calls this.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{upstreamRequests, upstreamDuration, rateLimited, loads} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveUpstream records one upstream call. status 0 means a transport failure.
func ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequests.WithLabelValues(endpoint, label).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func RateLimited() { rateLimited.Inc() }

// Load records which source served a load: cache, api or memo.
func Load(source string) { loads.WithLabelValues(source).Inc() }
