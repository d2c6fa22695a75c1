package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	guardHalts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kuvagram_guard_halts_total",
		Help: "Requests halted by a guard, grouped by denial reason.",
	}, []string{"reason"})

	imageViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kuvagram_image_views_total",
		Help: "Successful authorized image views.",
	})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kuvagram_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kuvagram_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncGuardHalt increments the guard denial counter.
func IncGuardHalt(reason string) {
	guardHalts.WithLabelValues(reason).Inc()
}

// IncImageView increments the successful view counter.
func IncImageView() {
	imageViews.Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
