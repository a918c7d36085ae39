package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute labels requests that no route pattern matched.
const unmatchedRoute = "unmatched"

// API traffic, labelled by route pattern rather than raw path so event ids do not
// become label values.
var (
	APIRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests served, by route, method and response code.",
	}, []string{"route", "method", "code"})

	APILatency = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "response_seconds",
		Help:      "Time to produce an API response.",
		// 2ms up to about 5s.
		Buckets: prometheus.ExponentialBuckets(0.002, 2.5, 9),
	}, []string{"route", "method"})

	APIActive = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "active_requests",
		Help:      "API requests currently being served.",
	})
)

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.code == 0 {
		s.code = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) status() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}

// HTTPMiddleware records API metrics. It must wrap the ServeMux directly: the matched
// pattern is only set on the request once the mux has routed it.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		APIActive.Inc()
		defer APIActive.Dec()

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := routeLabel(r)
		APIRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status())).Inc()
		APILatency.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
	})
}

// routeLabel returns the matched pattern without its method prefix.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" || r.Pattern == "/" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}
