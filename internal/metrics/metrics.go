package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssvnauka_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ssvnauka_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BillingEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssvnauka_billing_events_total",
			Help: "Billing webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssvnauka_subscriptions_total",
			Help: "Subscription checkouts completed, by plan",
		},
		[]string{"plan"},
	)

	EnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssvnauka_enrollments_total",
			Help: "Total number of course enrollments",
		},
	)

	LessonCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssvnauka_lesson_completions_total",
			Help: "Total number of first-time lesson completions",
		},
	)

	CourseCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssvnauka_course_completions_total",
			Help: "Total number of courses brought to 100% progress",
		},
	)

	XPAwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssvnauka_xp_awarded_total",
			Help: "Total experience points awarded",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssvnauka_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ssvnauka_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBillingEvent(eventType, outcome string) {
	BillingEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsTotal.WithLabelValues(plan).Inc()
}

func RecordEnrollment() {
	EnrollmentsTotal.Inc()
}

func RecordLessonCompletion() {
	LessonCompletionsTotal.Inc()
}

func RecordCourseCompletion() {
	CourseCompletionsTotal.Inc()
}

func RecordXPAwarded(points int) {
	XPAwardedTotal.Add(float64(points))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
