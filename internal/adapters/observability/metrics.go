package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	HotelsSanitized = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "hotels_sanitized_total", Help: "Hotels run through the sanitizer."},
	)
	RoomsKept = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rooms_kept_total", Help: "Named rooms kept."},
	)
	RoomsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rooms_dropped_total", Help: "Nameless or malformed room rows dropped."},
	)
	MalformedFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "malformed_fields_total", Help: "Embedded JSON columns that could not be decoded."},
		[]string{"field"},
	)
	IngestResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "ingest_total", Help: "Ingested hotels by result."},
		[]string{"result"}, // stored|failed
	)
)

// Serve exposes the default registry on addr in the background. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
		HotelsSanitized, RoomsKept, RoomsDropped, MalformedFields, IngestResults,
	}
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors()...)
	return reg
}

// RegisterDefault adds the collectors to the default registry used by Serve.
func RegisterDefault() {
	for _, c := range collectors() {
		if err := prometheus.Register(c); err != nil {
			if _, dup := err.(prometheus.AlreadyRegisteredError); !dup {
				log.Warn().Err(err).Msg("metrics register failed")
			}
		}
	}
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveSanitized(kept, dropped int) {
	HotelsSanitized.Inc()
	RoomsKept.Add(float64(kept))
	RoomsDropped.Add(float64(dropped))
}

func ObserveMalformed(field string) {
	if field == "" {
		field = "unnamed"
	}
	MalformedFields.WithLabelValues(field).Inc()
}

func ObserveIngest(result string) {
	IngestResults.WithLabelValues(result).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
