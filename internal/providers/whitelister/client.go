package whitelister

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/logger"
)

const apiKeyHeader = "X-API-Key"

// Config holds the whitelisting service settings
type Config struct {
	BaseURL          string
	APIKey           string
	WhitelistTimeout time.Duration
	StatusTimeout    time.Duration
	// RequestsPerSecond throttles outgoing whitelist calls; zero disables throttling
	RequestsPerSecond float64
	Burst             int
}

// Receipt is the outcome of a successful whitelist call
type Receipt struct {
	// TxRef is the whitelisting transaction hash, empty when the service did not return one
	TxRef string
	// AlreadyWhitelisted is set when the wallet was whitelisted before this call
	AlreadyWhitelisted bool
}

// ServiceError is a non-success answer from the whitelisting service
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("whitelist service returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the service holding the contract owner key
//
//go:generate mockgen -source=client.go -destination=../../mocks/whitelister.go -package=mocks -mock_names=Client=MockWhitelisterClient
type Client interface {
	// Whitelist adds the wallet to the contract whitelist. Single attempt.
	Whitelist(ctx context.Context, address string) (*Receipt, error)

	// Status reports whether the wallet is whitelisted
	Status(ctx context.Context, address string) (bool, error)
}

type whitelistResponse struct {
	Success            *bool  `json:"success"`
	TransactionHash    string `json:"transactionHash"`
	AlreadyWhitelisted bool   `json:"alreadyWhitelisted"`
	Error              string `json:"error"`
	Message            string `json:"message"`
}

type statusResponse struct {
	Whitelisted bool `json:"whitelisted"`
}

type client struct {
	cfg     Config
	http    adapter.HTTPClient
	limiter *rate.Limiter
}

// NewClient creates a whitelisting service client
func NewClient(cfg Config, httpClient adapter.HTTPClient) Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &client{cfg: cfg, http: httpClient}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	return c
}

func (c *client) headers() map[string]string {
	if c.cfg.APIKey == "" {
		return nil
	}
	return map[string]string{apiKeyHeader: c.cfg.APIKey}
}

// Whitelist calls POST {base}/api/whitelist
func (c *client) Whitelist(ctx context.Context, address string) (*Receipt, error) {
	if c.cfg.WhitelistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.WhitelistTimeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("whitelist call throttled: %w", err)
		}
	}

	status, body, err := c.http.PostJSON(ctx, c.cfg.BaseURL+"/api/whitelist", c.headers(), map[string]string{"address": address})
	if err != nil {
		return nil, fmt.Errorf("failed to call whitelist service: %w", err)
	}

	var resp whitelistResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			logger.WarnCtx(ctx, "Unreadable whitelist service response",
				zap.Int("status", status),
				zap.Error(err))
		}
	}

	if status >= 200 && status < 300 && (resp.Success == nil || *resp.Success) {
		return &Receipt{
			TxRef:              resp.TransactionHash,
			AlreadyWhitelisted: resp.AlreadyWhitelisted,
		}, nil
	}

	message := resp.Error
	if message == "" {
		message = resp.Message
	}
	if isAlreadyWhitelisted(message) {
		return &Receipt{AlreadyWhitelisted: true}, nil
	}
	if message == "" {
		message = "failed to prepare wallet"
	}

	return nil, &ServiceError{StatusCode: status, Message: message}
}

// Status calls GET {base}/api/status/{address}
func (c *client) Status(ctx context.Context, address string) (bool, error) {
	if c.cfg.StatusTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.StatusTimeout)
		defer cancel()
	}

	var resp statusResponse
	err := c.http.GetJSON(ctx, c.cfg.BaseURL+"/api/status/"+url.PathEscape(address), c.headers(), &resp)
	if err != nil {
		return false, fmt.Errorf("failed to get whitelist status: %w", err)
	}

	return resp.Whitelisted, nil
}

func isAlreadyWhitelisted(message string) bool {
	return strings.Contains(strings.ToLower(message), "already whitelisted")
}
