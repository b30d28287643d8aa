package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/store/schema"
)

// eligibleHandleBatchSize bounds the rows per INSERT when importing handles
const eligibleHandleBatchSize = 500

type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store over a gorm connection. Works with PostgreSQL and SQLite.
func NewSQLStore(db *gorm.DB) Store {
	return &sqlStore{db: db}
}

// AutoMigrate creates or updates the ledger tables from the schema models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&schema.EligibleHandle{}, &schema.ClaimRecord{})
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// Ping checks database connectivity
func (s *sqlStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// IsHandleEligible checks whether a normalized handle is on the eligible list
func (s *sqlStore) IsHandleEligible(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.EligibleHandle{}).
		Where("handle = ?", handle).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check eligible handle: %w", err)
	}
	return count > 0, nil
}

// AddEligibleHandles inserts handles with ON CONFLICT DO NOTHING
func (s *sqlStore) AddEligibleHandles(ctx context.Context, handles []string) (int64, error) {
	if len(handles) == 0 {
		return 0, nil
	}

	records := make([]schema.EligibleHandle, 0, len(handles))
	for _, h := range handles {
		records = append(records, schema.EligibleHandle{Handle: h})
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "handle"}},
			DoNothing: true,
		}).
		CreateInBatches(&records, eligibleHandleBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert eligible handles: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// GetClaimByHandle retrieves the ledger row for a handle
func (s *sqlStore) GetClaimByHandle(ctx context.Context, handle string) (*schema.ClaimRecord, error) {
	var record schema.ClaimRecord
	err := s.db.WithContext(ctx).Where("handle = ?", handle).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim record: %w", err)
	}
	return &record, nil
}

// UpsertClaim writes the ledger row in one statement guarded by the transition table.
// A row reaching claimed must already exist, so that target is a guarded UPDATE;
// every other target is an INSERT ... ON CONFLICT DO UPDATE ... WHERE.
func (s *sqlStore) UpsertClaim(ctx context.Context, input UpsertClaimInput) (*schema.ClaimRecord, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("invalid claim status: %q", input.Status)
	}
	if input.WalletAddress == "" {
		return nil, fmt.Errorf("wallet address is required")
	}

	predecessors := statusStrings(domain.PredecessorsOf(input.Status))

	var rowsAffected int64
	var err error
	if input.Status == domain.ClaimStatusClaimed {
		rowsAffected, err = s.markClaimed(ctx, input, predecessors)
	} else {
		rowsAffected, err = s.upsertWhitelistState(ctx, input, predecessors)
	}
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		logger.DebugCtx(ctx, "Claim record transition rejected",
			zap.String("handle", input.Handle),
			zap.String("status", string(input.Status)))
		return nil, ErrTransitionRejected
	}

	record, err := s.GetClaimByHandle(ctx, input.Handle)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("claim record for %s vanished after upsert", input.Handle)
	}

	return record, nil
}

func (s *sqlStore) upsertWhitelistState(ctx context.Context, input UpsertClaimInput, predecessors []string) (int64, error) {
	wallet := input.WalletAddress
	record := schema.ClaimRecord{
		Handle:         input.Handle,
		IdentityID:     input.IdentityID,
		WalletAddress:  &wallet,
		Status:         input.Status,
		WhitelistTxRef: input.WhitelistTxRef,
		ErrorMessage:   input.ErrorMessage,
		WhitelistedAt:  input.WhitelistedAt,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "handle"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "identity_id"}, Value: gorm.Expr("excluded.identity_id")},
				{Column: clause.Column{Name: "wallet_address"}, Value: gorm.Expr("excluded.wallet_address")},
				{Column: clause.Column{Name: "status"}, Value: gorm.Expr("excluded.status")},
				{Column: clause.Column{Name: "whitelist_tx_ref"}, Value: gorm.Expr("COALESCE(claim_records.whitelist_tx_ref, excluded.whitelist_tx_ref)")},
				{Column: clause.Column{Name: "error_message"}, Value: gorm.Expr("excluded.error_message")},
				{Column: clause.Column{Name: "whitelisted_at"}, Value: gorm.Expr("COALESCE(claim_records.whitelisted_at, excluded.whitelisted_at)")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "claim_records.token_id IS NULL"},
				clause.Expr{SQL: "(claim_records.wallet_address IS NULL OR lower(claim_records.wallet_address) = lower(excluded.wallet_address))"},
				clause.Expr{SQL: "claim_records.status IN ?", Vars: []interface{}{predecessors}},
			}},
		}).
		Create(&record)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert claim record: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (s *sqlStore) markClaimed(ctx context.Context, input UpsertClaimInput, predecessors []string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.ClaimRecord{}).
		Where("handle = ?", input.Handle).
		Where("token_id IS NULL").
		Where("(wallet_address IS NULL OR lower(wallet_address) = lower(?))", input.WalletAddress).
		Where("status IN ?", predecessors).
		Updates(map[string]interface{}{
			"status":         string(domain.ClaimStatusClaimed),
			"wallet_address": input.WalletAddress,
			"token_id":       input.TokenID,
			"mint_tx_ref":    input.MintTxRef,
			"claimed_at":     input.ClaimedAt,
			"error_message":  nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to record claim: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func statusStrings(statuses []domain.ClaimStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
