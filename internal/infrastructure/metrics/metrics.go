package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder domain event counters, nil-safe so use cases can run without metrics
type Recorder struct {
	progressUpdates   *prometheus.CounterVec
	examSubmissions   *prometheus.CounterVec
	certificateClaims *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewRecorder create collectors and register them on reg
func NewRecorder(namespace string, reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		progressUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_updates_total",
			Help:      "Lesson progress writes by course.",
		}, []string{"course"}),
		examSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exam_submissions_total",
			Help:      "Scored exam submissions by course and outcome.",
		}, []string{"course", "passed"}),
		certificateClaims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_claims_total",
			Help:      "Certificate claims by course and result (issued, existing, not_eligible).",
		}, []string{"course", "result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(r.progressUpdates, r.examSubmissions, r.certificateClaims, r.httpDuration)
	return r
}

// certificate claim results
const (
	ClaimIssued      = "issued"
	ClaimExisting    = "existing"
	ClaimNotEligible = "not_eligible"
)

func (r *Recorder) ProgressUpdated(courseID string) {
	if r == nil {
		return
	}
	r.progressUpdates.WithLabelValues(courseID).Inc()
}

func (r *Recorder) ExamSubmitted(courseID string, passed bool) {
	if r == nil {
		return
	}
	r.examSubmissions.WithLabelValues(courseID, strconv.FormatBool(passed)).Inc()
}

func (r *Recorder) CertificateClaimed(courseID, result string) {
	if r == nil {
		return
	}
	r.certificateClaims.WithLabelValues(courseID, result).Inc()
}

func (r *Recorder) ObserveHTTP(method, route string, status int, seconds float64) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
