package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP and domain collectors for one registry.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	moderations *prometheus.CounterVec
	feedCache   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adda_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adda_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		moderations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adda_moderation_decisions_total",
			Help: "Moderation decisions that changed a row",
		}, []string{"kind", "status"}),
		feedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adda_feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.latency, m.moderations, m.feedCache)
	return m
}

// Handler records request count and latency keyed by the chi route pattern,
// so path parameters do not explode label cardinality.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			rvr := recover()
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := responseStatus(ww, rvr)
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			if rvr != nil {
				panic(rvr)
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

func (m *Metrics) ObserveModeration(kind, status string) {
	m.moderations.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ObserveFeedCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.feedCache.WithLabelValues(result).Inc()
}
