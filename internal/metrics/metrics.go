// ABOUTME: Prometheus collectors for the HTTP API and rejected writes.
// ABOUTME: Collectors register with the default registry served at /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/schemas"
	"github.com/harperreed/gymlog/internal/storage"
)

// Rejection reasons reported on gymlog_rejected_writes_total.
const (
	ReasonValidation       = "validation"
	ReasonInvalidAttribute = "invalid_attribute"
	ReasonConstraint       = "constraint"
	ReasonNotFound         = "not_found"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests grouped by route pattern and status code.",
	}, []string{"route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymlog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency grouped by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})

	rejectedWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlog",
		Name:      "rejected_writes_total",
		Help:      "Writes refused by validation or storage integrity rules.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, rejectedWrites)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(route, code).Inc()
	httpDuration.WithLabelValues(route, code).Observe(elapsed.Seconds())
}

// RejectionReason classifies a write error. It returns "" for errors that are
// not rejections, such as I/O failures.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, schemas.ErrSchemaValidationFailed):
		return ReasonValidation
	case errors.Is(err, models.ErrInvalidAttribute):
		return ReasonInvalidAttribute
	case errors.Is(err, storage.ErrConstraintViolation):
		return ReasonConstraint
	case errors.Is(err, storage.ErrNotFound):
		return ReasonNotFound
	default:
		return ""
	}
}

// RecordRejection counts err if it is a rejected write.
func RecordRejection(err error) {
	if reason := RejectionReason(err); reason != "" {
		rejectedWrites.WithLabelValues(reason).Inc()
	}
}
