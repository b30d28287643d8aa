package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feral-file/og-claim/internal/api/middleware"
	"github.com/feral-file/og-claim/internal/metrics"
	"github.com/feral-file/og-claim/internal/ratelimit"
)

// RateLimitPolicies holds the per-route allowances
type RateLimitPolicies struct {
	Eligibility     middleware.RateLimitPolicy
	Whitelist       middleware.RateLimitPolicy
	WhitelistStatus middleware.RateLimitPolicy
	Claim           middleware.RateLimitPolicy
	Token           middleware.RateLimitPolicy
}

// RoutesConfig holds everything the routes need besides the handler
type RoutesConfig struct {
	Auth       middleware.AuthConfig
	Limiter    ratelimit.Limiter
	RateLimits RateLimitPolicies
	Metrics    *metrics.Metrics
	// Gatherer serves /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, cfg RoutesConfig) {
	// Health check and metrics (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	limit := func(scope string, policy middleware.RateLimitPolicy) gin.HandlerFunc {
		return middleware.RateLimit(cfg.Limiter, scope, policy, cfg.Metrics)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public reads
		v1.GET("/eligibility", limit("eligibility", cfg.RateLimits.Eligibility), handler.CheckEligibility)
		v1.GET("/whitelist", limit("whitelist_status", cfg.RateLimits.WhitelistStatus), handler.WhitelistStatus)
		v1.GET("/challenge", limit("challenge", cfg.RateLimits.Eligibility), handler.GetChallenge)
		v1.GET("/token/latest", limit("token", cfg.RateLimits.Token), handler.GetLatestToken)

		// Session-authenticated writes
		v1.POST("/whitelist", limit("whitelist", cfg.RateLimits.Whitelist), middleware.SessionAuth(cfg.Auth), handler.RequestWhitelist)
		v1.POST("/claim", limit("claim", cfg.RateLimits.Claim), middleware.SessionAuth(cfg.Auth), handler.RecordClaim)

		// Operator endpoints (API key only)
		v1.POST("/admin/eligible-handles", middleware.APIKeyAuth(cfg.Auth), handler.ImportEligibleHandles)
	}
}
