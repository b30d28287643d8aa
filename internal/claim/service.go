package claim

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/identity"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/messaging"
	"github.com/feral-file/og-claim/internal/metrics"
	"github.com/feral-file/og-claim/internal/providers/ethereum"
	"github.com/feral-file/og-claim/internal/providers/whitelister"
	"github.com/feral-file/og-claim/internal/signature"
	"github.com/feral-file/og-claim/internal/store"
	"github.com/feral-file/og-claim/internal/store/schema"
)

const claimRecordPendingMessage = "Your NFT was minted, but recording the claim failed. Please retry with the same transaction hash."

// Service reconciles social identities, wallet signatures and contract state into claim decisions
//
//go:generate mockgen -source=service.go -destination=../mocks/claim_service.go -package=mocks -mock_names=Service=MockClaimService
type Service interface {
	// CheckEligibility reports whether a handle may claim
	CheckEligibility(ctx context.Context, handle string) (*Eligibility, error)

	// RequestWhitelist whitelists a signature-verified wallet for an authenticated identity
	RequestWhitelist(ctx context.Context, id identity.Identity, input WhitelistInput) (*WhitelistResult, error)

	// WhitelistStatus reports whether a wallet is whitelisted. Any failure reads as false.
	WhitelistStatus(ctx context.Context, address string) bool

	// RecordClaim finalizes the ledger row after a mint. On a conflict the existing row
	// is returned alongside the error.
	RecordClaim(ctx context.Context, id identity.Identity, input ClaimInput) (*schema.ClaimRecord, error)

	// Challenge builds the ownership message for a wallet
	Challenge(address string) (*Challenge, error)

	// LatestToken reads the contract's token counter
	LatestToken(ctx context.Context) (*LatestToken, error)

	// ImportHandles adds handles to the eligible list
	ImportHandles(ctx context.Context, handles []string) (*ImportResult, error)
}

// Config holds service settings
type Config struct {
	// ReadTimeout bounds every store, chain and status read
	ReadTimeout time.Duration
	// WriteTimeout bounds every ledger write. Defaults to ReadTimeout.
	WriteTimeout time.Duration
}

type service struct {
	cfg         Config
	store       store.Store
	contract    ethereum.NFTContract
	whitelister whitelister.Client
	verifier    *signature.Verifier
	publisher   messaging.Publisher
	metrics     *metrics.Metrics
	clock       adapter.Clock
}

// NewService creates the claim service
func NewService(
	cfg Config,
	st store.Store,
	contract ethereum.NFTContract,
	wl whitelister.Client,
	verifier *signature.Verifier,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	clock adapter.Clock,
) Service {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = cfg.ReadTimeout
	}
	return &service{
		cfg:         cfg,
		store:       st,
		contract:    contract,
		whitelister: wl,
		verifier:    verifier,
		publisher:   publisher,
		metrics:     m,
		clock:       clock,
	}
}

func (s *service) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.ReadTimeout)
}

func (s *service) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.WriteTimeout)
}

// settleContext bounds a write that records an upstream side effect.
// It keeps the caller's values but not its cancellation.
func (s *service) settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
}

// upsert runs a ledger write under the given bounded context
func (s *service) upsert(ctx context.Context, bound func(context.Context) (context.Context, context.CancelFunc), input store.UpsertClaimInput) (*schema.ClaimRecord, error) {
	ctx, cancel := bound(ctx)
	defer cancel()
	return s.store.UpsertClaim(ctx, input)
}

// CheckEligibility normalizes the handle and evaluates it against the eligible list and the ledger
func (s *service) CheckEligibility(ctx context.Context, raw string) (*Eligibility, error) {
	handle, err := domain.NormalizeHandle(raw)
	if err != nil {
		return nil, err
	}

	eligibility, _, err := s.evaluate(ctx, handle)
	if err != nil {
		return nil, err
	}

	result := "eligible"
	if !eligibility.Eligible {
		result = string(eligibility.Reason)
	}
	s.metrics.IncEligibility(result)

	event := messaging.NewClaimEvent(messaging.EventEligibilityChecked, handle, s.clock.Now())
	event.Reason = result
	s.emit(ctx, event)

	return eligibility, nil
}

// evaluate answers eligibility for a normalized handle and returns the ledger row it saw
func (s *service) evaluate(ctx context.Context, handle string) (*Eligibility, *schema.ClaimRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	eligible, err := s.store.IsHandleEligible(ctx, handle)
	if err != nil {
		return nil, nil, domain.NewUpstreamError("check eligible handle", err)
	}
	if !eligible {
		return &Eligibility{Handle: handle, Eligible: false, Reason: domain.ReasonNotEligible}, nil, nil
	}

	record, err := s.store.GetClaimByHandle(ctx, handle)
	if err != nil {
		return nil, nil, domain.NewUpstreamError("get claim record", err)
	}

	if record != nil && record.IsClaimed() {
		return &Eligibility{
			Handle:    handle,
			Eligible:  false,
			Reason:    domain.ReasonAlreadyClaimed,
			TokenID:   record.TokenID,
			ClaimedAt: record.ClaimedAt,
		}, record, nil
	}

	return &Eligibility{Handle: handle, Eligible: true}, record, nil
}

// authorize checks the identity, normalizes its handle and re-runs the eligibility oracle
func (s *service) authorize(ctx context.Context, id identity.Identity) (*Eligibility, *schema.ClaimRecord, error) {
	if id.ID == "" {
		return nil, nil, domain.NewUnauthenticatedError("authentication required")
	}

	handle, err := domain.NormalizeHandle(id.Handle)
	if err != nil {
		return nil, nil, err
	}

	return s.evaluate(ctx, handle)
}

// RequestWhitelist runs the whitelist preconditions in order and reconciles the outcome into the ledger
func (s *service) RequestWhitelist(ctx context.Context, id identity.Identity, input WhitelistInput) (*WhitelistResult, error) {
	eligibility, _, err := s.authorize(ctx, id)
	if err != nil {
		return nil, err
	}
	handle := eligibility.Handle

	switch eligibility.Reason {
	case domain.ReasonNotEligible:
		s.metrics.IncWhitelist("not_eligible")
		return nil, domain.NewForbiddenError(domain.ReasonNotEligible, "Your account is not eligible for this claim")
	case domain.ReasonAlreadyClaimed:
		s.metrics.IncWhitelist("already_claimed")
		return nil, domain.NewConflictError(domain.ReasonAlreadyClaimed, "Your account has already claimed an NFT")
	}

	wallet, err := domain.ChecksumAddress(input.WalletAddress)
	if err != nil {
		return nil, err
	}

	if !s.verifier.IsFresh(input.Message, s.clock.Now()) {
		return nil, &domain.ValidationError{
			Reason:  domain.ReasonSignatureExpired,
			Message: "Signature expired. Please sign again.",
		}
	}
	if !s.verifier.Verify(wallet, input.Message, input.Signature) {
		return nil, domain.NewForbiddenError(domain.ReasonSignatureMismatch, "Signature does not match wallet address")
	}

	if s.hasMinted(ctx, handle, wallet) {
		s.metrics.IncWhitelist("already_minted")
		return nil, domain.NewConflictError(domain.ReasonAlreadyMinted, "This wallet has already minted an NFT. Each wallet can only mint once.")
	}

	record, err := s.getRecord(ctx, handle)
	if err != nil {
		return nil, err
	}

	if record != nil {
		if record.WalletAddress != nil && !domain.SameAddress(*record.WalletAddress, wallet) {
			s.metrics.IncWhitelist("wallet_mismatch")
			return nil, walletMismatchError()
		}
		if record.IsClaimed() {
			s.metrics.IncWhitelist("already_claimed")
			return nil, domain.NewConflictError(domain.ReasonAlreadyClaimed, "Your account has already claimed an NFT")
		}
		if record.HasWhitelistRef() {
			return s.confirmWhitelisted(ctx, id, handle, wallet, record.WhitelistTxRef)
		}
	}

	if s.statusWhitelisted(ctx, handle, wallet) {
		return s.confirmWhitelisted(ctx, id, handle, wallet, nil)
	}

	// Reserve the handle for this wallet before touching the chain
	_, err = s.upsert(ctx, s.writeContext, store.UpsertClaimInput{
		Handle:        handle,
		IdentityID:    id.ID,
		WalletAddress: wallet,
		Status:        domain.ClaimStatusPendingWhitelist,
	})
	if err != nil {
		if errors.Is(err, store.ErrTransitionRejected) {
			return nil, s.classifyRejection(ctx, handle, wallet)
		}
		return nil, domain.NewUpstreamError("reserve claim record", err)
	}

	return s.callWhitelister(ctx, id, handle, wallet)
}

// hasMinted asks the contract whether the wallet minted. A failed read does not block.
func (s *service) hasMinted(ctx context.Context, handle, wallet string) bool {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	minted, err := s.contract.HasMinted(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read hasMinted, continuing",
			zap.String("handle", handle),
			zap.String("wallet", wallet),
			zap.Error(err))
		return false
	}
	return minted
}

// statusWhitelisted asks the whitelisting service whether the wallet is already whitelisted.
// A failed lookup reads as not whitelisted.
func (s *service) statusWhitelisted(ctx context.Context, handle, wallet string) bool {
	whitelisted, err := s.whitelister.Status(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read whitelist status, continuing",
			zap.String("handle", handle),
			zap.String("wallet", wallet),
			zap.Error(err))
		return false
	}
	return whitelisted
}

func (s *service) getRecord(ctx context.Context, handle string) (*schema.ClaimRecord, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	record, err := s.store.GetClaimByHandle(ctx, handle)
	if err != nil {
		return nil, domain.NewUpstreamError("get claim record", err)
	}
	return record, nil
}

// confirmWhitelisted records a wallet already known to be whitelisted without calling the service
func (s *service) confirmWhitelisted(ctx context.Context, id identity.Identity, handle, wallet string, txRef *string) (*WhitelistResult, error) {
	now := s.clock.Now()
	record, err := s.upsert(ctx, s.writeContext, store.UpsertClaimInput{
		Handle:         handle,
		IdentityID:     id.ID,
		WalletAddress:  wallet,
		Status:         domain.ClaimStatusWhitelisted,
		WhitelistTxRef: txRef,
		WhitelistedAt:  &now,
	})
	if err != nil {
		if errors.Is(err, store.ErrTransitionRejected) {
			return nil, s.classifyRejection(ctx, handle, wallet)
		}
		logger.ErrorCtx(ctx, fmt.Errorf("failed to confirm whitelisted claim record: %w", err),
			zap.String("handle", handle),
			zap.String("wallet", wallet))
	}

	result := &WhitelistResult{Success: true, AlreadyWhitelisted: true}
	if record != nil && record.WhitelistTxRef != nil {
		result.TxRef = *record.WhitelistTxRef
	} else if txRef != nil {
		result.TxRef = *txRef
	}

	s.metrics.IncWhitelist("already_whitelisted")
	return result, nil
}

// callWhitelister invokes the whitelisting service and records its outcome
func (s *service) callWhitelister(ctx context.Context, id identity.Identity, handle, wallet string) (*WhitelistResult, error) {
	start := s.clock.Now()
	receipt, err := s.whitelister.Whitelist(ctx, wallet)
	s.metrics.ObserveWhitelistService(s.clock.Since(start))

	if err != nil {
		message := err.Error()
		var serviceErr *whitelister.ServiceError
		if errors.As(err, &serviceErr) {
			message = serviceErr.Message
		}

		_, upsertErr := s.upsert(ctx, s.settleContext, store.UpsertClaimInput{
			Handle:        handle,
			IdentityID:    id.ID,
			WalletAddress: wallet,
			Status:        domain.ClaimStatusWhitelistFailed,
			ErrorMessage:  &message,
		})
		if upsertErr != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to record whitelist failure: %w", upsertErr),
				zap.String("handle", handle))
		}

		s.metrics.IncWhitelist("failed")
		event := messaging.NewClaimEvent(messaging.EventWhitelistFailed, handle, s.clock.Now())
		event.WalletAddress = wallet
		event.Reason = message
		s.emit(ctx, event)

		return nil, domain.NewUpstreamError("whitelist wallet", err)
	}

	now := s.clock.Now()
	var txRef *string
	if receipt.TxRef != "" {
		txRef = &receipt.TxRef
	}

	record, err := s.upsert(ctx, s.settleContext, store.UpsertClaimInput{
		Handle:         handle,
		IdentityID:     id.ID,
		WalletAddress:  wallet,
		Status:         domain.ClaimStatusWhitelisted,
		WhitelistTxRef: txRef,
		WhitelistedAt:  &now,
	})
	if err != nil {
		// The wallet is whitelisted on-chain; the next request repairs the row
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record whitelisted claim: %w", err),
			zap.String("handle", handle),
			zap.String("wallet", wallet),
			zap.String("tx_ref", receipt.TxRef))
	}

	result := &WhitelistResult{
		Success:            true,
		AlreadyWhitelisted: receipt.AlreadyWhitelisted,
		TxRef:              receipt.TxRef,
	}
	if record != nil && record.WhitelistTxRef != nil {
		result.TxRef = *record.WhitelistTxRef
	}

	outcome := "success"
	if receipt.AlreadyWhitelisted {
		outcome = "already_whitelisted"
	}
	s.metrics.IncWhitelist(outcome)

	logger.InfoCtx(ctx, "Wallet whitelisted",
		zap.String("handle", handle),
		zap.String("wallet", wallet),
		zap.String("tx_ref", result.TxRef),
		zap.Bool("already_whitelisted", receipt.AlreadyWhitelisted))

	event := messaging.NewClaimEvent(messaging.EventWhitelisted, handle, now)
	event.WalletAddress = wallet
	event.TxRef = result.TxRef
	s.emit(ctx, event)

	return result, nil
}

// classifyRejection explains a guarded upsert that refused to write
func (s *service) classifyRejection(ctx context.Context, handle, wallet string) error {
	record, err := s.getRecord(ctx, handle)
	if err != nil {
		return err
	}
	if record != nil && record.IsClaimed() {
		return domain.NewConflictError(domain.ReasonAlreadyClaimed, "Your account has already claimed an NFT")
	}
	if record != nil && record.WalletAddress != nil && !domain.SameAddress(*record.WalletAddress, wallet) {
		return walletMismatchError()
	}
	return domain.NewConflictError(domain.ReasonWalletMismatch, "Claim record changed concurrently, please retry")
}

func walletMismatchError() error {
	return domain.NewConflictError(domain.ReasonWalletMismatch,
		"You have already whitelisted a different wallet address. Please use the same wallet you whitelisted previously.")
}

// WhitelistStatus asks the whitelisting service, then the contract
func (s *service) WhitelistStatus(ctx context.Context, address string) bool {
	wallet, err := domain.ChecksumAddress(address)
	if err != nil {
		return false
	}

	ctx, cancel := s.readContext(ctx)
	defer cancel()

	whitelisted, err := s.whitelister.Status(ctx, wallet)
	if err == nil {
		return whitelisted
	}
	logger.WarnCtx(ctx, "Whitelist service status failed, reading contract", zap.String("wallet", wallet), zap.Error(err))

	whitelisted, err = s.contract.IsWhitelisted(ctx, wallet)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read isWhitelisted", zap.String("wallet", wallet), zap.Error(err))
		return false
	}
	return whitelisted
}

// RecordClaim validates the mint and moves the ledger row to claimed
func (s *service) RecordClaim(ctx context.Context, id identity.Identity, input ClaimInput) (*schema.ClaimRecord, error) {
	if id.ID == "" {
		return nil, domain.NewUnauthenticatedError("authentication required")
	}
	if !domain.IsValidTxRef(input.TxRef) {
		return nil, domain.NewValidationError("transaction hash must be 0x followed by 64 hex characters", domain.ErrInvalidTxRef)
	}
	wallet, err := domain.ChecksumAddress(input.WalletAddress)
	if err != nil {
		return nil, err
	}
	if input.TokenID != nil && !domain.IsValidTokenID(*input.TokenID) {
		return nil, domain.NewValidationError("token id must be a base-10 unsigned integer", domain.ErrInvalidTokenID)
	}

	eligibility, record, err := s.authorize(ctx, id)
	if err != nil {
		return nil, err
	}
	handle := eligibility.Handle

	if eligibility.Reason == domain.ReasonNotEligible {
		s.metrics.IncClaimRecord("not_eligible")
		return nil, domain.NewForbiddenError(domain.ReasonNotEligible, "Your account is not eligible for this claim")
	}

	if err := checkClaimable(record, id, wallet, input.TxRef); err != nil {
		s.metrics.IncClaimRecord(outcomeOf(err))
		return record, err
	}

	now := s.clock.Now()
	updated, err := s.upsert(ctx, s.settleContext, store.UpsertClaimInput{
		Handle:        handle,
		IdentityID:    id.ID,
		WalletAddress: wallet,
		Status:        domain.ClaimStatusClaimed,
		TokenID:       input.TokenID,
		MintTxRef:     &input.TxRef,
		ClaimedAt:     &now,
	})
	if err != nil {
		if errors.Is(err, store.ErrTransitionRejected) {
			// Lost a race: explain against the row that won
			current, getErr := s.getRecord(ctx, handle)
			if getErr != nil {
				return nil, getErr
			}
			if conflictErr := checkClaimable(current, id, wallet, input.TxRef); conflictErr != nil {
				s.metrics.IncClaimRecord(outcomeOf(conflictErr))
				return current, conflictErr
			}
		}

		logger.ErrorCtx(ctx, fmt.Errorf("failed to record claim: %w", err),
			zap.String("handle", handle),
			zap.String("wallet", wallet),
			zap.String("tx_ref", input.TxRef))
		s.metrics.IncClaimRecord("pending")

		event := messaging.NewClaimEvent(messaging.EventClaimRecordFailed, handle, now)
		event.WalletAddress = wallet
		event.TxRef = input.TxRef
		event.Reason = err.Error()
		s.emit(ctx, event)

		return nil, domain.NewRecoverableError(claimRecordPendingMessage, err)
	}

	s.metrics.IncClaimRecord("recorded")
	logger.InfoCtx(ctx, "Claim recorded",
		zap.String("handle", handle),
		zap.String("wallet", wallet),
		zap.String("tx_ref", input.TxRef))

	event := messaging.NewClaimEvent(messaging.EventClaimRecorded, handle, now)
	event.WalletAddress = wallet
	event.TxRef = input.TxRef
	if input.TokenID != nil {
		event.TokenID = *input.TokenID
	}
	s.emit(ctx, event)

	return updated, nil
}

// checkClaimable applies the claim recorder's ledger preconditions to the current row
func checkClaimable(record *schema.ClaimRecord, id identity.Identity, wallet, txRef string) error {
	if record == nil {
		return domain.NewNotFoundError(domain.ReasonNoWhitelistRecord, "No whitelist record found for your account. Please whitelist your wallet first.")
	}
	if record.IdentityID != id.ID {
		return domain.NewForbiddenError(domain.ReasonIdentityMismatch, "This claim belongs to a different account")
	}
	if record.WalletAddress != nil && !domain.SameAddress(*record.WalletAddress, wallet) {
		return domain.NewForbiddenError(domain.ReasonWalletMismatch, "Wallet address does not match the whitelisted wallet")
	}
	if record.IsClaimed() {
		if record.MintTxRef != nil && strings.EqualFold(*record.MintTxRef, txRef) {
			return domain.NewConflictError(domain.ReasonAlreadyRecorded, "Claim already recorded")
		}
		return domain.NewConflictError(domain.ReasonAlreadyClaimed, "Your account has already claimed an NFT")
	}
	return nil
}

func outcomeOf(err error) string {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return string(conflict.Reason)
	}
	var auth *domain.AuthError
	if errors.As(err, &auth) {
		return string(auth.Reason)
	}
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return string(notFound.Reason)
	}
	return "error"
}

// Challenge builds the message for a wallet to sign now
func (s *service) Challenge(address string) (*Challenge, error) {
	wallet, err := domain.ChecksumAddress(address)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &Challenge{
		Address:   wallet,
		Message:   s.verifier.BuildChallenge(wallet, now),
		Timestamp: now.UnixMilli(),
	}, nil
}

// LatestToken derives the latest minted token id from the contract's next id
func (s *service) LatestToken(ctx context.Context) (*LatestToken, error) {
	ctx, cancel := s.readContext(ctx)
	defer cancel()

	next, err := s.contract.CurrentTokenID(ctx)
	if err != nil {
		return nil, domain.NewUpstreamError("read current token id", err)
	}

	latest := big.NewInt(0)
	if next.Cmp(big.NewInt(1)) > 0 {
		latest.Sub(next, big.NewInt(1))
	}

	return &LatestToken{Latest: latest, Next: next}, nil
}

// ImportHandles normalizes, de-duplicates and inserts handles into the eligible list
func (s *service) ImportHandles(ctx context.Context, handles []string) (*ImportResult, error) {
	valid, rejected := domain.NormalizeHandles(handles)

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	inserted, err := s.store.AddEligibleHandles(writeCtx, valid)
	if err != nil {
		return nil, domain.NewUpstreamError("add eligible handles", err)
	}

	logger.InfoCtx(ctx, "Imported eligible handles",
		zap.Int("accepted", len(valid)),
		zap.Int64("inserted", inserted),
		zap.Int("rejected", len(rejected)))

	return &ImportResult{
		Inserted: inserted,
		Accepted: len(valid),
		Rejected: rejected,
	}, nil
}

// emit publishes an analytics event. Failures are logged only.
func (s *service) emit(ctx context.Context, event messaging.ClaimEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish claim event",
			zap.String("type", string(event.Type)),
			zap.String("handle", event.Handle),
			zap.Error(err))
	}
}
