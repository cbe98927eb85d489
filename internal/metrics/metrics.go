package metrics // import "github.com/Xunop/json2epub/internal/metrics"

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "json2epub"

// OutcomeSuccess labels conversions that produced an archive. Failed
// conversions are labelled with their error kind.
const OutcomeSuccess = "success"

var (
	registerOnce sync.Once

	conversions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversions_total",
		Help:      "Total number of conversions by outcome",
	}, []string{"outcome"})
	conversionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "conversion_duration_seconds",
		Help:      "Histogram of conversion durations in seconds by outcome",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"outcome"})
	archiveSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "archive_size_bytes",
		Help:      "Histogram of generated archive sizes",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 12),
	})
	chapters = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "book_chapters",
		Help:      "Histogram of chapters per converted book",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "conversions_in_flight",
		Help:      "Number of conversions currently running",
	})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code",
	}, []string{"route", "code"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(conversions, conversionDuration, archiveSize, chapters, inFlight, httpRequests)
	})
}

// ConversionStarted marks a conversion as running. The returned function
// records its outcome and must be called exactly once.
func ConversionStarted() func(outcome string) {
	start := time.Now()
	inFlight.Inc()
	return func(outcome string) {
		inFlight.Dec()
		conversions.WithLabelValues(outcome).Inc()
		conversionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

func ObserveArchive(size int64, chapterCount int) {
	archiveSize.Observe(float64(size))
	chapters.Observe(float64(chapterCount))
}

func IncHTTPRequest(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
