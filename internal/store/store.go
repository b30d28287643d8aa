package store

import (
	"context"
	"errors"
	"time"

	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/store/schema"
)

// ErrTransitionRejected is returned when an upsert's guard refuses the write: the row is
// already claimed, is bound to another wallet, or its status cannot move to the target
var ErrTransitionRejected = errors.New("claim record transition rejected")

// UpsertClaimInput is the desired state of a ledger row
type UpsertClaimInput struct {
	Handle        string
	IdentityID    string
	WalletAddress string
	Status        domain.ClaimStatus
	// WhitelistTxRef is kept if the row already has one
	WhitelistTxRef *string
	// ErrorMessage replaces the stored failure text; nil clears it
	ErrorMessage *string
	// WhitelistedAt is kept if the row already has one
	WhitelistedAt *time.Time
	// TokenID, MintTxRef and ClaimedAt apply only when Status is claimed
	TokenID   *string
	MintTxRef *string
	ClaimedAt *time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks database connectivity
	Ping(ctx context.Context) error
	// IsHandleEligible checks whether a normalized handle is on the eligible list
	IsHandleEligible(ctx context.Context, handle string) (bool, error)
	// AddEligibleHandles inserts normalized handles, skipping existing ones, and returns how many were new
	AddEligibleHandles(ctx context.Context, handles []string) (int64, error)
	// GetClaimByHandle retrieves the ledger row for a handle, or nil if none exists
	GetClaimByHandle(ctx context.Context, handle string) (*schema.ClaimRecord, error)
	// UpsertClaim moves the ledger row for input.Handle to input.Status in a single guarded statement
	// and returns the stored row. Returns ErrTransitionRejected when the guard refuses the write.
	UpsertClaim(ctx context.Context, input UpsertClaimInput) (*schema.ClaimRecord, error)
}
