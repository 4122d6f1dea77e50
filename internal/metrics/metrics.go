package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mrp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mrp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	RatingWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mrp",
			Subsystem: "ratings",
			Name:      "writes_total",
			Help:      "Rating writes by operation",
		},
		[]string{"op"},
	)

	LikeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mrp",
			Subsystem: "ratings",
			Name:      "like_writes_total",
			Help:      "Like and unlike operations",
		},
		[]string{"op"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mrp",
			Subsystem: "sessions",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)

	TokensSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mrp",
			Subsystem: "sessions",
			Name:      "tokens_swept_total",
			Help:      "Expired tokens removed by the sweeper",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint string, status int, d time.Duration) {
	RequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func RecordRatingWrite(op string) {
	RatingWrites.WithLabelValues(op).Inc()
}

func RecordLikeWrite(op string) {
	LikeWrites.WithLabelValues(op).Inc()
}

// RecordLogin records a login attempt as "success" or "failure".
func RecordLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	LoginAttempts.WithLabelValues(result).Inc()
}

func RecordTokensSwept(n int64) {
	if n > 0 {
		TokensSwept.Add(float64(n))
	}
}
