package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/og-claim/internal/api/middleware"
	"github.com/feral-file/og-claim/internal/api/shared/dto"
	"github.com/feral-file/og-claim/internal/claim"
	"github.com/feral-file/og-claim/internal/logger"
)

// healthCheckTimeout bounds each dependency ping of the health endpoint
const healthCheckTimeout = 3 * time.Second

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// CheckEligibility reports whether a handle may claim
	// GET /api/v1/eligibility?handle=<handle>
	CheckEligibility(c *gin.Context)

	// RequestWhitelist whitelists the caller's signature-verified wallet (requires a session)
	// POST /api/v1/whitelist
	RequestWhitelist(c *gin.Context)

	// WhitelistStatus reports whether a wallet is whitelisted
	// GET /api/v1/whitelist?address=<address>
	WhitelistStatus(c *gin.Context)

	// RecordClaim records a completed mint (requires a session)
	// POST /api/v1/claim
	RecordClaim(c *gin.Context)

	// GetChallenge returns the message a wallet must sign
	// GET /api/v1/challenge?address=<address>
	GetChallenge(c *gin.Context)

	// GetLatestToken returns the contract's token counter
	// GET /api/v1/token/latest
	GetLatestToken(c *gin.Context)

	// ImportEligibleHandles adds handles to the eligible list (requires an API key)
	// POST /api/v1/admin/eligible-handles
	ImportEligibleHandles(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// Pinger is a dependency the health endpoint checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// handler implements the Handler interface
type handler struct {
	service claim.Service
	checks  map[string]Pinger
}

// NewHandler creates a new REST API handler
func NewHandler(service claim.Service, checks map[string]Pinger) Handler {
	return &handler{
		service: service,
		checks:  checks,
	}
}

// CheckEligibility evaluates a handle against the eligible list and the ledger
func (h *handler) CheckEligibility(c *gin.Context) {
	handle := c.Query("handle")
	if handle == "" {
		respondValidationError(c, "handle is required")
		return
	}

	eligibility, err := h.service.CheckEligibility(c.Request.Context(), handle)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapEligibilityToDTO(eligibility))
}

// RequestWhitelist whitelists the caller's wallet
func (h *handler) RequestWhitelist(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req dto.WhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondAPIError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.RequestWhitelist(c.Request.Context(), id, claim.WhitelistInput{
		WalletAddress: req.WalletAddress,
		Signature:     req.Signature,
		Message:       req.Message,
	})
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WhitelistResponse{
		Success:            result.Success,
		AlreadyWhitelisted: result.AlreadyWhitelisted,
	})
}

// WhitelistStatus always answers 200; any failure reads as not whitelisted
func (h *handler) WhitelistStatus(c *gin.Context) {
	whitelisted := h.service.WhitelistStatus(c.Request.Context(), c.Query("address"))
	c.JSON(http.StatusOK, dto.WhitelistStatusResponse{Whitelisted: whitelisted})
}

// RecordClaim records the caller's mint
func (h *handler) RecordClaim(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondAPIError(c, http.StatusBadRequest, err)
		return
	}

	record, err := h.service.RecordClaim(c.Request.Context(), id, claim.ClaimInput{
		WalletAddress: req.WalletAddress,
		TokenID:       req.TokenIDString(),
		TxRef:         req.TxRef,
	})
	if err != nil {
		h.respondDomainError(c, err, withClaim(record))
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{
		Success: true,
		Claim:   dto.MapClaimRecordToDTO(record),
	})
}

// GetChallenge builds the ownership message for a wallet
func (h *handler) GetChallenge(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		respondValidationError(c, "address is required")
		return
	}

	challenge, err := h.service.Challenge(address)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChallengeResponse{
		Address:   challenge.Address,
		Message:   challenge.Message,
		Timestamp: challenge.Timestamp,
	})
}

// GetLatestToken reads the token counter from the contract
func (h *handler) GetLatestToken(c *gin.Context) {
	token, err := h.service.LatestToken(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LatestTokenResponse{
		LatestTokenID: token.Latest.String(),
		NextTokenID:   token.Next.String(),
	})
}

// ImportEligibleHandles adds handles to the eligible list
func (h *handler) ImportEligibleHandles(c *gin.Context) {
	var req dto.ImportHandlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondAPIError(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.ImportHandles(c.Request.Context(), req.Handles)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapImportResultToDTO(result))
}

// HealthCheck pings every registered dependency
func (h *handler) HealthCheck(c *gin.Context) {
	response := dto.HealthResponse{Status: "ok"}
	status := http.StatusOK

	if len(h.checks) > 0 {
		response.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := check.Ping(ctx)
		cancel()

		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Health check failed", zap.String("dependency", name), zap.Error(err))
			response.Checks[name] = "unavailable"
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	c.JSON(status, response)
}
