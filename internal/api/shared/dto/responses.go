package dto

import (
	"time"

	"github.com/feral-file/og-claim/internal/claim"
	"github.com/feral-file/og-claim/internal/store/schema"
)

// EligibilityResponse is the answer of the eligibility endpoint
type EligibilityResponse struct {
	Eligible  bool       `json:"eligible"`
	Reason    string     `json:"reason,omitempty"`
	TokenID   *string    `json:"token_id,omitempty"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

// WhitelistResponse is the answer of a whitelist request.
// Chain references are kept server-side.
type WhitelistResponse struct {
	Success            bool `json:"success"`
	AlreadyWhitelisted bool `json:"alreadyWhitelisted,omitempty"`
}

// WhitelistStatusResponse reports whether a wallet is whitelisted
type WhitelistStatusResponse struct {
	Whitelisted bool `json:"whitelisted"`
}

// ClaimRecordResponse is the client view of a ledger row
type ClaimRecordResponse struct {
	Handle        string     `json:"handle"`
	WalletAddress string     `json:"wallet_address,omitempty"`
	Status        string     `json:"status"`
	TokenID       *string    `json:"token_id,omitempty"`
	MintTxRef     *string    `json:"tx_ref,omitempty"`
	WhitelistedAt *time.Time `json:"whitelisted_at,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
}

// ClaimResponse is the answer of a successful claim recording
type ClaimResponse struct {
	Success bool                 `json:"success"`
	Claim   *ClaimRecordResponse `json:"claim"`
}

// ChallengeResponse carries the message a wallet must sign
type ChallengeResponse struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// LatestTokenResponse reports the contract's token counter as decimal strings
type LatestTokenResponse struct {
	LatestTokenID string `json:"latest_token_id"`
	NextTokenID   string `json:"next_token_id"`
}

// ImportHandlesResponse summarizes an eligible-handle import
type ImportHandlesResponse struct {
	Inserted int64    `json:"inserted"`
	Accepted int      `json:"accepted"`
	Rejected []string `json:"rejected"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// MapEligibilityToDTO maps an eligibility answer to its response
func MapEligibilityToDTO(e *claim.Eligibility) *EligibilityResponse {
	return &EligibilityResponse{
		Eligible:  e.Eligible,
		Reason:    string(e.Reason),
		TokenID:   e.TokenID,
		ClaimedAt: e.ClaimedAt,
	}
}

// MapClaimRecordToDTO maps a ledger row to its client view
func MapClaimRecordToDTO(r *schema.ClaimRecord) *ClaimRecordResponse {
	if r == nil {
		return nil
	}
	return &ClaimRecordResponse{
		Handle:        r.Handle,
		WalletAddress: r.Wallet(),
		Status:        string(r.Status),
		TokenID:       r.TokenID,
		MintTxRef:     r.MintTxRef,
		WhitelistedAt: r.WhitelistedAt,
		ClaimedAt:     r.ClaimedAt,
	}
}

// MapImportResultToDTO maps an import summary to its response
func MapImportResultToDTO(r *claim.ImportResult) *ImportHandlesResponse {
	rejected := r.Rejected
	if rejected == nil {
		rejected = []string{}
	}
	return &ImportHandlesResponse{
		Inserted: r.Inserted,
		Accepted: r.Accepted,
		Rejected: rejected,
	}
}
