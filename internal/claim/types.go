package claim

import (
	"math/big"
	"time"

	"github.com/feral-file/og-claim/internal/domain"
)

// Eligibility is the oracle's answer for a handle
type Eligibility struct {
	Handle    string
	Eligible  bool
	Reason    domain.Reason
	TokenID   *string
	ClaimedAt *time.Time
}

// WhitelistInput is a signed request to whitelist a wallet
type WhitelistInput struct {
	WalletAddress string
	Signature     string
	Message       string
}

// WhitelistResult is the outcome of a whitelist request
type WhitelistResult struct {
	Success            bool
	AlreadyWhitelisted bool
	TxRef              string
}

// ClaimInput describes a completed mint
type ClaimInput struct {
	WalletAddress string
	TokenID       *string
	TxRef         string
}

// Challenge is the message a wallet must sign
type Challenge struct {
	Address   string
	Message   string
	Timestamp int64
}

// LatestToken reports the contract's token counter
type LatestToken struct {
	Latest *big.Int
	Next   *big.Int
}

// ImportResult summarizes an eligible-handle import
type ImportResult struct {
	Inserted int64
	Accepted int
	Rejected []string
}
