package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/og-claim/internal/api/shared/errors"
	"github.com/feral-file/og-claim/internal/identity"
	"github.com/feral-file/og-claim/internal/logger"
)

const (
	AUTH_TYPE_KEY = "auth_type"
	IDENTITY_KEY  = "identity"

	AUTH_TYPE_SESSION = "session"
	AUTH_TYPE_APIKEY  = "apikey"

	API_KEY_HEADER = "X-API-Key"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Authenticator identity.Authenticator
	APIKeys       []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success  bool
	AuthType string
	Identity *identity.Identity
	Error    error
}

// Authenticate validates an Authorization header value.
// "Bearer <token>" is a session token and "ApiKey <key>" an operator key.
func Authenticate(ctx context.Context, authHeader string, cfg AuthConfig) AuthResult {
	result := AuthResult{
		Success: false,
	}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	// Parse the authorization header
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	authType := strings.ToLower(parts[0])
	credentials := strings.TrimSpace(parts[1])

	switch authType {
	case "bearer":
		if cfg.Authenticator == nil {
			result.Error = errors.New("session authentication not configured")
			return result
		}
		id, err := cfg.Authenticator.Authenticate(ctx, credentials)
		if err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_SESSION
		result.Identity = id

	case "apikey":
		if err := validateAPIKey(credentials, cfg.APIKeys); err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_APIKEY

	default:
		result.Error = fmt.Errorf("unsupported authorization type: %s", authType)
		return result
	}

	return result
}

// SessionAuth requires a valid session token and stores the caller's identity in the context
func SessionAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.Request.Context(), c.GetHeader("Authorization"), cfg)
		if result.Success && result.AuthType != AUTH_TYPE_SESSION {
			result.Success = false
			result.Error = errors.New("session token required")
		}

		if !result.Success {
			logger.WarnCtx(c.Request.Context(), "Session authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication required").WithReason("unauthenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.ErrorResponse{Error: apiErr})
			return
		}

		c.Set(AUTH_TYPE_KEY, result.AuthType)
		c.Set(IDENTITY_KEY, *result.Identity)
		logger.DebugCtx(c.Request.Context(), "Session authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("subject", result.Identity.ID),
		)

		c.Next()
	}
}

// APIKeyAuth requires an operator API key, sent as "Authorization: ApiKey <key>" or X-API-Key
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error
		if key := c.GetHeader(API_KEY_HEADER); key != "" {
			err = validateAPIKey(key, cfg.APIKeys)
		} else {
			result := Authenticate(c.Request.Context(), c.GetHeader("Authorization"), AuthConfig{APIKeys: cfg.APIKeys})
			err = result.Error
		}

		if err != nil {
			logger.WarnCtx(c.Request.Context(), "API key authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.ErrorResponse{Error: apiErr})
			return
		}

		c.Set(AUTH_TYPE_KEY, AUTH_TYPE_APIKEY)
		c.Next()
	}
}

// IdentityFromContext returns the identity stored by SessionAuth
func IdentityFromContext(c *gin.Context) (identity.Identity, bool) {
	v, ok := c.Get(IDENTITY_KEY)
	if !ok {
		return identity.Identity{}, false
	}
	id, ok := v.(identity.Identity)
	return id, ok
}

// validateAPIKey compares an API key against the configured keys in constant time
func validateAPIKey(apiKey string, validKeys []string) error {
	configured := false
	for _, key := range validKeys {
		if key == "" {
			continue
		}
		configured = true
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return nil
		}
	}

	if !configured {
		return errors.New("no API keys configured")
	}
	return errors.New("invalid API key")
}
