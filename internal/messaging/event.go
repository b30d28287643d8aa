package messaging

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies a step in the claim lifecycle
type EventType string

const (
	EventEligibilityChecked EventType = "eligibility_checked"
	EventWhitelisted        EventType = "whitelisted"
	EventWhitelistFailed    EventType = "whitelist_failed"
	EventClaimRecorded      EventType = "claim_recorded"
	EventClaimRecordFailed  EventType = "claim_record_failed"
)

// ClaimEvent is an analytics record of a claim lifecycle step
type ClaimEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Handle        string    `json:"handle"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	TokenID       string    `json:"token_id,omitempty"`
	TxRef         string    `json:"tx_ref,omitempty"`
	// Reason carries the eligibility result or the failure reason
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewClaimEvent creates an event with a time-ordered id
func NewClaimEvent(eventType EventType, handle string, now time.Time) ClaimEvent {
	return ClaimEvent{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Type:       eventType,
		Handle:     handle,
		OccurredAt: now.UTC(),
	}
}
