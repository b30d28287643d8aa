package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidHandle is returned when a handle fails the handle grammar after normalization
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrInvalidAddress is returned when a wallet address is not a valid hex address
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidTxRef is returned when a transaction reference is not a 32-byte hex hash
	ErrInvalidTxRef = errors.New("invalid transaction reference")

	// ErrInvalidTokenID is returned when a token id is not a base-10 unsigned integer
	ErrInvalidTokenID = errors.New("invalid token id")
)

// Reason is a machine-readable explanation attached to client-facing errors.
// Callers branch on the reason, not only on the status code.
type Reason string

const (
	ReasonInvalidFormat     Reason = "invalid_format"
	ReasonNotEligible       Reason = "not_eligible"
	ReasonAlreadyClaimed    Reason = "already_claimed"
	ReasonAlreadyMinted     Reason = "already_minted"
	ReasonAlreadyRecorded   Reason = "already_recorded"
	ReasonWalletMismatch    Reason = "wallet_mismatch"
	ReasonIdentityMismatch  Reason = "identity_mismatch"
	ReasonSignatureExpired  Reason = "signature_expired"
	ReasonSignatureMismatch Reason = "signature_mismatch"
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonNoWhitelistRecord Reason = "no_whitelist_record"
	ReasonRateLimited       Reason = "rate_limited"
)

// ValidationError reports malformed client input (400). Never retried automatically.
type ValidationError struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AuthError reports a missing session (401) or a refused identity (403)
type AuthError struct {
	Reason    Reason
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string {
	return e.Message
}

// ConflictError reports a state conflict (409). Several reasons are success-equivalent.
type ConflictError struct {
	Reason  Reason
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports a missing ledger row (404)
type NotFoundError struct {
	Reason  Reason
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// RateLimitError reports a rejected request (429)
type RateLimitError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s", e.Scope)
}

// UpstreamError wraps a failure of the chain, the whitelisting service, or the data store (500).
// The wrapped cause is for logs only and never reaches the caller.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RecoverableError is returned when a mint succeeded on-chain but recording it failed.
// Message is user-visible and the caller is expected to retry with the same transaction reference.
type RecoverableError struct {
	Message string
	Err     error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with the invalid_format reason
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Reason: ReasonInvalidFormat, Message: message, Err: err}
}

// NewUnauthenticatedError creates a 401 auth error
func NewUnauthenticatedError(message string) *AuthError {
	return &AuthError{Reason: ReasonUnauthenticated, Message: message}
}

// NewForbiddenError creates a 403 auth error
func NewForbiddenError(reason Reason, message string) *AuthError {
	return &AuthError{Reason: reason, Message: message, Forbidden: true}
}

// NewConflictError creates a 409 conflict error
func NewConflictError(reason Reason, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(reason Reason, message string) *NotFoundError {
	return &NotFoundError{Reason: reason, Message: message}
}

// NewUpstreamError wraps an upstream failure for operation op
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// NewRecoverableError wraps a bookkeeping failure that followed an irreversible success
func NewRecoverableError(message string, err error) *RecoverableError {
	return &RecoverableError{Message: message, Err: err}
}

// IsSuccessEquivalent reports whether err is a conflict that callers should treat as success
func IsSuccessEquivalent(err error) bool {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return false
	}
	return conflict.Reason == ReasonAlreadyRecorded
}
