package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/api/middleware"
	"github.com/feral-file/og-claim/internal/api/rest"
	apierrors "github.com/feral-file/og-claim/internal/api/shared/errors"
	"github.com/feral-file/og-claim/internal/claim"
	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/identity"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/metrics"
	"github.com/feral-file/og-claim/internal/mocks"
	"github.com/feral-file/og-claim/internal/ratelimit"
	"github.com/feral-file/og-claim/internal/store/schema"
)

const (
	wallet = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	txRef  = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

var alice = identity.Identity{ID: "user-1", Handle: "alice"}

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type testServer struct {
	router  *gin.Engine
	service *mocks.MockClaimService
}

func generous() middleware.RateLimitPolicy {
	return middleware.RateLimitPolicy{Window: time.Minute, MaxRequests: 1000}
}

func newTestServer(t *testing.T, ctrl *gomock.Controller, policies *rest.RateLimitPolicies, checks map[string]rest.Pinger) *testServer {
	svc := mocks.NewMockClaimService(ctrl)

	authenticator := mocks.NewMockAuthenticator(ctrl)
	authenticator.EXPECT().Authenticate(gomock.Any(), "good-token").Return(&alice, nil).AnyTimes()
	authenticator.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Return(nil, identity.ErrInvalidToken).AnyTimes()

	limiter := ratelimit.NewMemoryLimiter(adapter.NewClock(), 0)
	t.Cleanup(limiter.Stop)

	if policies == nil {
		policies = &rest.RateLimitPolicies{
			Eligibility:     generous(),
			Whitelist:       generous(),
			WhitelistStatus: generous(),
			Claim:           generous(),
			Token:           generous(),
		}
	}

	reg := prometheus.NewRegistry()
	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(svc, checks), rest.RoutesConfig{
		Auth:       middleware.AuthConfig{Authenticator: authenticator, APIKeys: []string{"op-key"}},
		Limiter:    limiter,
		RateLimits: *policies,
		Metrics:    metrics.New(reg),
		Gatherer:   reg,
	})

	return &testServer{router: router, service: svc}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			payload, _ := json.Marshal(b)
			reader = bytes.NewReader(payload)
		}
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var session = map[string]string{"Authorization": "Bearer good-token"}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *apierrors.APIError {
	t.Helper()
	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func strPtr(s string) *string {
	return &s
}

func TestCheckEligibility(t *testing.T) {
	claimedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		query        string
		setupMocks   func(*mocks.MockClaimService)
		wantStatus   int
		validateFunc func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "eligible",
			query: "?handle=alice",
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().CheckEligibility(gomock.Any(), "alice").Return(&claim.Eligibility{Handle: "alice", Eligible: true}, nil)
			},
			wantStatus: http.StatusOK,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"eligible":true}`, w.Body.String())
			},
		},
		{
			name:  "already claimed",
			query: "?handle=alice",
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().CheckEligibility(gomock.Any(), "alice").Return(&claim.Eligibility{
					Handle:    "alice",
					Reason:    domain.ReasonAlreadyClaimed,
					TokenID:   strPtr("7"),
					ClaimedAt: &claimedAt,
				}, nil)
			},
			wantStatus: http.StatusOK,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				body := decode(t, w)
				assert.Equal(t, false, body["eligible"])
				assert.Equal(t, "already_claimed", body["reason"])
				assert.Equal(t, "7", body["token_id"])
				assert.Equal(t, "2026-02-01T00:00:00Z", body["claimed_at"])
			},
		},
		{
			name:  "malformed handle",
			query: "?handle=bad%20handle",
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().CheckEligibility(gomock.Any(), "bad handle").
					Return(nil, domain.NewValidationError("invalid handle format", domain.ErrInvalidHandle))
			},
			wantStatus: http.StatusBadRequest,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				apiErr := decodeError(t, w)
				assert.Equal(t, apierrors.ErrCodeValidationFailed, apiErr.Code)
				assert.Equal(t, "invalid_format", apiErr.Reason)
			},
		},
		{
			name:       "missing handle",
			query:      "",
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			srv := newTestServer(t, ctrl, nil, nil)
			tt.setupMocks(srv.service)

			w := srv.do(http.MethodGet, "/api/v1/eligibility"+tt.query, nil, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.validateFunc != nil {
				tt.validateFunc(t, w)
			}
		})
	}
}

func TestEligibilityRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	policies := &rest.RateLimitPolicies{
		Eligibility:     middleware.RateLimitPolicy{Window: time.Minute, MaxRequests: 20},
		Whitelist:       generous(),
		WhitelistStatus: generous(),
		Claim:           generous(),
		Token:           generous(),
	}
	srv := newTestServer(t, ctrl, policies, nil)
	srv.service.EXPECT().CheckEligibility(gomock.Any(), "alice").
		Return(&claim.Eligibility{Handle: "alice", Eligible: true}, nil).Times(20)

	for i := 0; i < 20; i++ {
		w := srv.do(http.MethodGet, "/api/v1/eligibility?handle=alice", nil, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := srv.do(http.MethodGet, "/api/v1/eligibility?handle=alice", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, apierrors.ErrCodeRateLimited, decodeError(t, w).Code)

	metricsBody := srv.do(http.MethodGet, "/metrics", nil, nil).Body.String()
	assert.Contains(t, metricsBody, `og_claim_ratelimit_rejections_total{scope="eligibility"} 1`)
}

func TestRequestWhitelist(t *testing.T) {
	validBody := map[string]string{
		"wallet_address": wallet,
		"signature":      "0x" + strings.Repeat("ab", 65),
		"message":        "I am the owner of wallet address: " + wallet,
	}

	tests := []struct {
		name         string
		body         interface{}
		headers      map[string]string
		setupMocks   func(*mocks.MockClaimService)
		wantStatus   int
		wantReason   string
		validateFunc func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "no session",
			body:       validBody,
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusUnauthorized,
			wantReason: "unauthenticated",
		},
		{
			name:       "bad session",
			body:       validBody,
			headers:    map[string]string{"Authorization": "Bearer forged"},
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed json",
			body:       `{"wallet_address":`,
			headers:    session,
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing signature",
			body:       map[string]string{"wallet_address": wallet, "message": "m"},
			headers:    session,
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed wallet is rejected before eligibility",
			body:       map[string]string{"wallet_address": "0x123", "signature": "0xsig", "message": "m"},
			headers:    session,
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:    "whitelisted",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, claim.WhitelistInput{
					WalletAddress: validBody["wallet_address"],
					Signature:     validBody["signature"],
					Message:       validBody["message"],
				}).Return(&claim.WhitelistResult{Success: true, TxRef: "0xsecret"}, nil)
			},
			wantStatus: http.StatusOK,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"success":true}`, w.Body.String())
			},
		},
		{
			name:    "already whitelisted",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, gomock.Any()).
					Return(&claim.WhitelistResult{Success: true, AlreadyWhitelisted: true}, nil)
			},
			wantStatus: http.StatusOK,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"success":true,"alreadyWhitelisted":true}`, w.Body.String())
			},
		},
		{
			name:    "expired signature",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, gomock.Any()).
					Return(nil, &domain.ValidationError{Reason: domain.ReasonSignatureExpired, Message: "Signature expired. Please sign again."})
			},
			wantStatus: http.StatusBadRequest,
			wantReason: "signature_expired",
		},
		{
			name:    "not eligible",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewForbiddenError(domain.ReasonNotEligible, "not eligible"))
			},
			wantStatus: http.StatusForbidden,
			wantReason: "not_eligible",
		},
		{
			name:    "wallet mismatch",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewConflictError(domain.ReasonWalletMismatch, "different wallet"))
			},
			wantStatus: http.StatusConflict,
			wantReason: "wallet_mismatch",
		},
		{
			name:    "upstream failure hides the cause",
			body:    validBody,
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RequestWhitelist(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewUpstreamError("whitelist wallet", errors.New("private key rejected by node")))
			},
			wantStatus: http.StatusInternalServerError,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.NotContains(t, w.Body.String(), "private key")
				apiErr := decodeError(t, w)
				assert.Equal(t, apierrors.ErrCodeInternalError, apiErr.Code)
				assert.Empty(t, apiErr.Details)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			srv := newTestServer(t, ctrl, nil, nil)
			tt.setupMocks(srv.service)

			w := srv.do(http.MethodPost, "/api/v1/whitelist", tt.body, tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, decodeError(t, w).Reason)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, w)
			}
		})
	}
}

func TestWhitelistStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newTestServer(t, ctrl, nil, nil)
	srv.service.EXPECT().WhitelistStatus(gomock.Any(), wallet).Return(true)
	srv.service.EXPECT().WhitelistStatus(gomock.Any(), "garbage").Return(false)

	w := srv.do(http.MethodGet, "/api/v1/whitelist?address="+wallet, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"whitelisted":true}`, w.Body.String())

	w = srv.do(http.MethodGet, "/api/v1/whitelist?address=garbage", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"whitelisted":false}`, w.Body.String())
}

func TestRecordClaim(t *testing.T) {
	claimedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	record := &schema.ClaimRecord{
		Handle:        "alice",
		IdentityID:    "user-1",
		WalletAddress: strPtr(wallet),
		Status:        domain.ClaimStatusClaimed,
		TokenID:       strPtr("7"),
		MintTxRef:     strPtr(txRef),
		ClaimedAt:     &claimedAt,
	}

	tests := []struct {
		name         string
		body         interface{}
		headers      map[string]string
		setupMocks   func(*mocks.MockClaimService)
		wantStatus   int
		validateFunc func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "no session",
			body:       map[string]interface{}{"wallet_address": wallet, "tx_ref": txRef},
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed tx ref never reaches the service",
			body:       map[string]interface{}{"wallet_address": wallet, "tx_ref": "0x12"},
			headers:    session,
			setupMocks: func(s *mocks.MockClaimService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:    "recorded",
			body:    map[string]interface{}{"wallet_address": wallet, "token_id": 7, "tx_ref": txRef},
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RecordClaim(gomock.Any(), alice, claim.ClaimInput{
					WalletAddress: wallet,
					TokenID:       strPtr("7"),
					TxRef:         txRef,
				}).Return(record, nil)
			},
			wantStatus: http.StatusOK,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				body := decode(t, w)
				assert.Equal(t, true, body["success"])
				claimBody := body["claim"].(map[string]interface{})
				assert.Equal(t, "7", claimBody["token_id"])
				assert.Equal(t, "claimed", claimBody["status"])
				assert.Equal(t, txRef, claimBody["tx_ref"])
			},
		},
		{
			name:    "already recorded carries the claim",
			body:    map[string]interface{}{"wallet_address": wallet, "tx_ref": txRef},
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RecordClaim(gomock.Any(), alice, gomock.Any()).
					Return(record, domain.NewConflictError(domain.ReasonAlreadyRecorded, "Claim already recorded"))
			},
			wantStatus: http.StatusConflict,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				body := decode(t, w)
				errBody := body["error"].(map[string]interface{})
				assert.Equal(t, "already_recorded", errBody["reason"])
				claimBody := errBody["claim"].(map[string]interface{})
				assert.Equal(t, "7", claimBody["token_id"])
			},
		},
		{
			name:    "no whitelist record",
			body:    map[string]interface{}{"wallet_address": wallet, "tx_ref": txRef},
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RecordClaim(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewNotFoundError(domain.ReasonNoWhitelistRecord, "No whitelist record"))
			},
			wantStatus: http.StatusNotFound,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "no_whitelist_record", decodeError(t, w).Reason)
			},
		},
		{
			name:    "identity mismatch",
			body:    map[string]interface{}{"wallet_address": wallet, "tx_ref": txRef},
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RecordClaim(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewForbiddenError(domain.ReasonIdentityMismatch, "different account"))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "bookkeeping failure is retryable",
			body:    map[string]interface{}{"wallet_address": wallet, "tx_ref": txRef},
			headers: session,
			setupMocks: func(s *mocks.MockClaimService) {
				s.EXPECT().RecordClaim(gomock.Any(), alice, gomock.Any()).
					Return(nil, domain.NewRecoverableError("Your NFT was minted, but recording the claim failed.", errors.New("db down")))
			},
			wantStatus: http.StatusInternalServerError,
			validateFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				apiErr := decodeError(t, w)
				assert.Equal(t, apierrors.ErrCodeClaimRecordPending, apiErr.Code)
				assert.True(t, apiErr.Retryable)
				assert.Contains(t, apiErr.Message, "minted")
				assert.NotContains(t, w.Body.String(), "db down")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			srv := newTestServer(t, ctrl, nil, nil)
			tt.setupMocks(srv.service)

			w := srv.do(http.MethodPost, "/api/v1/claim", tt.body, tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.validateFunc != nil {
				tt.validateFunc(t, w)
			}
		})
	}
}

func TestGetChallenge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newTestServer(t, ctrl, nil, nil)
	srv.service.EXPECT().Challenge(wallet).Return(&claim.Challenge{
		Address:   wallet,
		Message:   "I am the owner of wallet address: " + wallet,
		Timestamp: 1767225600000,
	}, nil)
	srv.service.EXPECT().Challenge("0x1").Return(nil, domain.NewValidationError("invalid wallet address format", domain.ErrInvalidAddress))

	w := srv.do(http.MethodGet, "/api/v1/challenge?address="+wallet, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1767225600000), body["timestamp"])
	assert.Contains(t, body["message"], wallet)

	w = srv.do(http.MethodGet, "/api/v1/challenge?address=0x1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodGet, "/api/v1/challenge", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newTestServer(t, ctrl, nil, nil)
	gomock.InOrder(
		srv.service.EXPECT().LatestToken(gomock.Any()).Return(&claim.LatestToken{Latest: big.NewInt(41), Next: big.NewInt(42)}, nil),
		srv.service.EXPECT().LatestToken(gomock.Any()).Return(nil, domain.NewUpstreamError("read current token id", errors.New("rpc down"))),
	)

	w := srv.do(http.MethodGet, "/api/v1/token/latest", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"latest_token_id":"41","next_token_id":"42"}`, w.Body.String())

	w = srv.do(http.MethodGet, "/api/v1/token/latest", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestImportEligibleHandles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newTestServer(t, ctrl, nil, nil)
	srv.service.EXPECT().ImportHandles(gomock.Any(), []string{"@Alice", "bob"}).
		Return(&claim.ImportResult{Inserted: 2, Accepted: 2}, nil)

	body := map[string]interface{}{"handles": []string{"@Alice", "bob"}}

	w := srv.do(http.MethodPost, "/api/v1/admin/eligible-handles", body, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/admin/eligible-handles", body, map[string]string{"Authorization": "ApiKey op-key"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"inserted":2,"accepted":2,"rejected":[]}`, w.Body.String())

	w = srv.do(http.MethodPost, "/api/v1/admin/eligible-handles", map[string]interface{}{"handles": []string{}}, map[string]string{"X-API-Key": "op-key"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthy := newTestServer(t, ctrl, nil, map[string]rest.Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
	})
	w := healthy.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, w.Body.String())

	degraded := newTestServer(t, ctrl, nil, map[string]rest.Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	w = degraded.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","redis":"unavailable"}}`, w.Body.String())
}
