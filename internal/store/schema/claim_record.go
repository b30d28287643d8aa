package schema

import (
	"time"

	"github.com/feral-file/og-claim/internal/domain"
)

// ClaimRecord represents the claim_records table - one ledger row per normalized handle
type ClaimRecord struct {
	// Handle is the normalized social handle
	Handle string `gorm:"column:handle;primaryKey;type:text"`
	// IdentityID is the subject of the session token that created the row
	IdentityID string `gorm:"column:identity_id;not null;type:text"`
	// WalletAddress is the EIP-55 checksummed wallet bound to the handle
	WalletAddress *string `gorm:"column:wallet_address;type:text"`
	// Status is the lifecycle state
	Status domain.ClaimStatus `gorm:"column:status;not null;type:text;index"`
	// WhitelistTxRef is the whitelisting transaction hash
	WhitelistTxRef *string `gorm:"column:whitelist_tx_ref;type:text"`
	// ErrorMessage is the last whitelist failure, for operators
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// TokenID is set exactly once, on a recorded mint
	TokenID *string `gorm:"column:token_id;type:text"`
	// MintTxRef is the mint transaction hash
	MintTxRef *string `gorm:"column:mint_tx_ref;type:text"`
	// WhitelistedAt is set the first time the wallet is whitelisted
	WhitelistedAt *time.Time `gorm:"column:whitelisted_at"`
	// ClaimedAt is when the mint was recorded
	ClaimedAt *time.Time `gorm:"column:claimed_at"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the ClaimRecord model
func (ClaimRecord) TableName() string {
	return "claim_records"
}

// IsClaimed reports whether the mint has been recorded
func (r *ClaimRecord) IsClaimed() bool {
	return r.TokenID != nil || r.Status == domain.ClaimStatusClaimed
}

// HasWhitelistRef reports whether the wallet is known to be whitelisted
func (r *ClaimRecord) HasWhitelistRef() bool {
	return r.WhitelistTxRef != nil || r.Status == domain.ClaimStatusWhitelisted
}

// Wallet returns the bound wallet or an empty string
func (r *ClaimRecord) Wallet() string {
	if r.WalletAddress == nil {
		return ""
	}
	return *r.WalletAddress
}
