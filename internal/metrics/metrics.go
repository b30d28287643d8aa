package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks claim lifecycle outcomes and rate limit rejections.
// Its methods are no-ops on a nil receiver.
type Metrics struct {
	WhitelistTotal           *prometheus.CounterVec
	ClaimRecordTotal         *prometheus.CounterVec
	EligibilityTotal         *prometheus.CounterVec
	RateLimitRejectionsTotal *prometheus.CounterVec
	WhitelistServiceDuration prometheus.Histogram
}

// New creates a Metrics instance registered with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		WhitelistTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "og_claim_whitelist_total",
			Help: "Whitelist requests by outcome",
		}, []string{"outcome"}),
		ClaimRecordTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "og_claim_record_total",
			Help: "Claim recording requests by outcome",
		}, []string{"outcome"}),
		EligibilityTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "og_claim_eligibility_total",
			Help: "Eligibility checks by result",
		}, []string{"result"}),
		RateLimitRejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "og_claim_ratelimit_rejections_total",
			Help: "Requests rejected by the rate limiter, by route scope",
		}, []string{"scope"}),
		WhitelistServiceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "og_claim_whitelist_service_duration_seconds",
			Help:    "Duration of calls to the whitelisting service",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
	}
}

// IncWhitelist records a whitelist request outcome
func (m *Metrics) IncWhitelist(outcome string) {
	if m == nil {
		return
	}
	m.WhitelistTotal.WithLabelValues(outcome).Inc()
}

// IncClaimRecord records a claim recording outcome
func (m *Metrics) IncClaimRecord(outcome string) {
	if m == nil {
		return
	}
	m.ClaimRecordTotal.WithLabelValues(outcome).Inc()
}

// IncEligibility records an eligibility result
func (m *Metrics) IncEligibility(result string) {
	if m == nil {
		return
	}
	m.EligibilityTotal.WithLabelValues(result).Inc()
}

// IncRateLimitRejection records a rejected request for scope
func (m *Metrics) IncRateLimitRejection(scope string) {
	if m == nil {
		return
	}
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// ObserveWhitelistService records how long a whitelisting service call took
func (m *Metrics) ObserveWhitelistService(d time.Duration) {
	if m == nil {
		return
	}
	m.WhitelistServiceDuration.Observe(d.Seconds())
}
