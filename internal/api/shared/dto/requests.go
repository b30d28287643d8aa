package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apierrors "github.com/feral-file/og-claim/internal/api/shared/errors"
	"github.com/feral-file/og-claim/internal/domain"
)

// maxMessageLength bounds the signed challenge accepted from clients
const maxMessageLength = 1024

// WhitelistRequest represents the request body for whitelisting a wallet
type WhitelistRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

// Validate validates the request body
func (r *WhitelistRequest) Validate() error {
	if r.WalletAddress == "" || r.Signature == "" || r.Message == "" {
		return apierrors.NewValidationError("wallet_address, signature and message are required")
	}

	if !domain.IsValidAddress(strings.TrimSpace(r.WalletAddress)) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", r.WalletAddress))
	}

	if len(r.Message) > maxMessageLength {
		return apierrors.NewValidationError(fmt.Sprintf("message must be at most %d bytes", maxMessageLength))
	}

	return nil
}

// TokenID accepts a token id sent either as a JSON string or a JSON number
type TokenID string

// UnmarshalJSON decodes a quoted or bare integer
func (t *TokenID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TokenID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("token_id must be a string or integer: %w", err)
	}
	*t = TokenID(n.String())
	return nil
}

// ClaimRequest represents the request body for recording a mint
type ClaimRequest struct {
	WalletAddress string   `json:"wallet_address"`
	TokenID       *TokenID `json:"token_id,omitempty"`
	TxRef         string   `json:"tx_ref"`
}

// Validate validates the request body
func (r *ClaimRequest) Validate() error {
	if r.TxRef == "" {
		return apierrors.NewValidationError("tx_ref is required")
	}

	if !domain.IsValidTxRef(r.TxRef) {
		return apierrors.NewValidationError("tx_ref must be 0x followed by 64 hex characters")
	}

	if r.WalletAddress == "" {
		return apierrors.NewValidationError("wallet_address is required")
	}

	if !domain.IsValidAddress(strings.TrimSpace(r.WalletAddress)) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", r.WalletAddress))
	}

	if r.TokenID != nil && !domain.IsValidTokenID(string(*r.TokenID)) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid token_id: %s", *r.TokenID))
	}

	return nil
}

// TokenIDString returns the token id as an optional string
func (r *ClaimRequest) TokenIDString() *string {
	if r.TokenID == nil {
		return nil
	}
	s := string(*r.TokenID)
	return &s
}

// ImportHandlesRequest represents the request body for adding eligible handles
type ImportHandlesRequest struct {
	Handles []string `json:"handles"`
}

// Validate validates the request body
func (r *ImportHandlesRequest) Validate() error {
	if len(r.Handles) == 0 {
		return apierrors.NewValidationError("handles is required")
	}

	if len(r.Handles) > domain.MAX_ELIGIBLE_HANDLES_BATCH {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d handles allowed", domain.MAX_ELIGIBLE_HANDLES_BATCH))
	}

	return nil
}
