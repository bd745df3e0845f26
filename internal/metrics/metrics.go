// Package metrics exposes the Prometheus collectors of the platform, one
// subsystem per app: auth, blog/flashcards content, http, security, system.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name
const Namespace = "contenthub"

// Metrics holds all Prometheus metric collectors / Contient tous les collecteurs de métriques Prometheus
type Metrics struct {
	// auth
	LoginAttempts     *prometheus.CounterVec // by status: success, failure, locked, inactive
	RegistrationTotal prometheus.Counter
	TokenRefreshes    *prometheus.CounterVec
	AccountLockouts   prometheus.Counter

	// content
	ContentCreated   *prometheus.CounterVec   // by kind: category, post, subject, deck, card
	SearchHits       *prometheus.HistogramVec // matches per searched list request
	FlashcardAnswers *prometheus.CounterVec   // by result: correct, incorrect

	// http
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveConnections   prometheus.Gauge

	// security
	RateLimitHits     *prometheus.CounterVec
	CSRFFailures      prometheus.Counter
	InvalidTokens     prometheus.Counter
	TokenBindingFails prometheus.Counter // IP/UA mismatch on refresh
	PermissionDenials *prometheus.CounterVec

	// system
	DatabaseConnections prometheus.Gauge
	BackgroundTasks     *prometheus.GaugeVec // 1 running, 0 stopped
}

type builder struct {
	f promauto.Factory
}

func (b builder) counter(sub, name, help string) prometheus.Counter {
	return b.f.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Subsystem: sub, Name: name, Help: help})
}

func (b builder) counterVec(sub, name, help string, labels ...string) *prometheus.CounterVec {
	return b.f.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Subsystem: sub, Name: name, Help: help}, labels)
}

func (b builder) gauge(sub, name, help string) prometheus.Gauge {
	return b.f.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Subsystem: sub, Name: name, Help: help})
}

func (b builder) histogramVec(sub, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return b.f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace, Subsystem: sub, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// NewMetrics registers the collectors on reg; nil means the default registry.
// Enregistre les collecteurs sur reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	b := builder{promauto.With(reg)}

	return &Metrics{
		LoginAttempts:     b.counterVec("auth", "login_attempts_total", "Login attempts by status", "status"),
		RegistrationTotal: b.counter("auth", "registrations_total", "User registrations"),
		TokenRefreshes:    b.counterVec("auth", "token_refreshes_total", "Refresh token rotations by status", "status"),
		AccountLockouts:   b.counter("auth", "account_lockouts_total", "Accounts locked after too many failed logins"),

		ContentCreated: b.counterVec("content", "created_total", "Created content records by kind", "kind"),
		SearchHits: b.histogramVec("content", "search_hits", "Matches of searched list requests",
			[]float64{0, 1, 5, 10, 25, 50, 100, 500}, "list"),
		FlashcardAnswers: b.counterVec("flashcards", "answers_total", "Card answers by result", "result"),

		HTTPRequestsTotal: b.counterVec("http", "requests_total", "HTTP requests by method, route and status", "method", "path", "status_code"),
		HTTPRequestDuration: b.histogramVec("http", "request_duration_seconds", "HTTP request latency in seconds",
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, "method", "path"),
		ActiveConnections: b.gauge("http", "active_connections", "In-flight HTTP requests"),

		RateLimitHits:     b.counterVec("security", "rate_limit_hits_total", "Rate limited requests by limiter", "endpoint"),
		CSRFFailures:      b.counter("security", "csrf_failures_total", "CSRF validation failures"),
		InvalidTokens:     b.counter("security", "invalid_tokens_total", "Invalid or expired access tokens"),
		TokenBindingFails: b.counter("security", "token_binding_failures_total", "Refresh tokens presented from another client"),
		PermissionDenials: b.counterVec("security", "permission_denials_total", "Permission check failures", "permission"),

		DatabaseConnections: b.gauge("system", "database_connections", "Open database connections"),
		BackgroundTasks:     b.f.NewGaugeVec(prometheus.GaugeOpts{Namespace: Namespace, Subsystem: "system", Name: "background_tasks", Help: "Background task status"}, []string{"task_name"}),
	}
}

// RecordLoginAttempt counts a login by status / Compte une connexion par statut
func (m *Metrics) RecordLoginAttempt(status string) {
	m.LoginAttempts.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordRegistration() {
	m.RegistrationTotal.Inc()
}

func (m *Metrics) RecordContentCreated(kind string) {
	m.ContentCreated.WithLabelValues(kind).Inc()
}

// RecordSearch observes how many records a searched list matched.
func (m *Metrics) RecordSearch(list string, hits int) {
	m.SearchHits.WithLabelValues(list).Observe(float64(hits))
}

func (m *Metrics) RecordAnswer(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.FlashcardAnswers.WithLabelValues(result).Inc()
}

// RecordTokenRefresh counts a refresh by status: success, invalid, revoked,
// expired or binding_failure.
func (m *Metrics) RecordTokenRefresh(status string) {
	m.TokenRefreshes.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordAccountLockout() {
	m.AccountLockouts.Inc()
}

// RecordHTTPRequest counts a request / Compte une requête
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusLabel(statusCode)).Inc()
}

func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordCSRFFailure() {
	m.CSRFFailures.Inc()
}

func (m *Metrics) RecordInvalidToken() {
	m.InvalidTokens.Inc()
}

func (m *Metrics) RecordTokenBindingFailure() {
	m.TokenBindingFails.Inc()
}

// RecordPermissionDenial counts a refused permission / Compte un refus de permission
func (m *Metrics) RecordPermissionDenial(permission string) {
	m.PermissionDenials.WithLabelValues(permission).Inc()
}

func (m *Metrics) UpdateDatabaseConnections(count int) {
	m.DatabaseConnections.Set(float64(count))
}

// SetBackgroundTaskStatus flags a background task as running or stopped.
// Indique si une tâche de fond tourne.
func (m *Metrics) SetBackgroundTaskStatus(taskName string, running bool) {
	status := 0.0
	if running {
		status = 1
	}
	m.BackgroundTasks.WithLabelValues(taskName).Set(status)
}

// statusLabel keeps the status codes the app emits and folds the rest into
// their class to bound label cardinality.
func statusLabel(code int) string {
	switch code {
	case 200, 201, 400, 401, 403, 404, 405, 409, 413, 429, 500, 503:
		return strconv.Itoa(code)
	}
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
