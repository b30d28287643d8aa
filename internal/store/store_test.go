package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/og-claim/internal/domain"
)

const (
	testWalletA = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	testWalletB = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	testTxRef   = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	testMintTx  = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

func ptr[T any](v T) *T {
	return &v
}

// =============================================================================
// Test Data Builders
// =============================================================================

func buildWhitelistInput(handle, wallet string, status domain.ClaimStatus) UpsertClaimInput {
	return UpsertClaimInput{
		Handle:        handle,
		IdentityID:    "user-" + handle,
		WalletAddress: wallet,
		Status:        status,
	}
}

func buildWhitelistedInput(handle, wallet string, at time.Time) UpsertClaimInput {
	input := buildWhitelistInput(handle, wallet, domain.ClaimStatusWhitelisted)
	input.WhitelistTxRef = ptr(testTxRef)
	input.WhitelistedAt = &at
	return input
}

func buildClaimedInput(handle, wallet, tokenID string, at time.Time) UpsertClaimInput {
	input := buildWhitelistInput(handle, wallet, domain.ClaimStatusClaimed)
	input.TokenID = ptr(tokenID)
	input.MintTxRef = ptr(testMintTx)
	input.ClaimedAt = &at
	return input
}

// =============================================================================
// Test: EligibleHandles
// =============================================================================

func testEligibleHandles(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("unknown handle is not eligible", func(t *testing.T) {
		eligible, err := store.IsHandleEligible(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("insert reports only new handles", func(t *testing.T) {
		inserted, err := store.AddEligibleHandles(ctx, []string{"alice", "bob"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), inserted)

		inserted, err = store.AddEligibleHandles(ctx, []string{"alice", "carol"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)

		for _, h := range []string{"alice", "bob", "carol"} {
			eligible, err := store.IsHandleEligible(ctx, h)
			require.NoError(t, err)
			assert.True(t, eligible, h)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		inserted, err := store.AddEligibleHandles(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)
	})
}

// =============================================================================
// Test: GetClaimByHandle
// =============================================================================

func testGetClaimByHandle(t *testing.T, store Store) {
	ctx := context.Background()

	record, err := store.GetClaimByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, record)

	_, err = store.UpsertClaim(ctx, buildWhitelistInput("alice", testWalletA, domain.ClaimStatusPendingWhitelist))
	require.NoError(t, err)

	record, err = store.GetClaimByHandle(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "alice", record.Handle)
	assert.Equal(t, "user-alice", record.IdentityID)
	assert.Equal(t, testWalletA, record.Wallet())
	assert.Equal(t, domain.ClaimStatusPendingWhitelist, record.Status)
	assert.False(t, record.IsClaimed())
	assert.False(t, record.HasWhitelistRef())
}

// =============================================================================
// Test: UpsertClaim whitelist states
// =============================================================================

func testUpsertClaimWhitelist(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("reserve then whitelist", func(t *testing.T) {
		record, err := store.UpsertClaim(ctx, buildWhitelistInput("alice", testWalletA, domain.ClaimStatusPendingWhitelist))
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusPendingWhitelist, record.Status)

		record, err = store.UpsertClaim(ctx, buildWhitelistedInput("alice", testWalletA, now))
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusWhitelisted, record.Status)
		require.NotNil(t, record.WhitelistTxRef)
		assert.Equal(t, testTxRef, *record.WhitelistTxRef)
		require.NotNil(t, record.WhitelistedAt)
		assert.WithinDuration(t, now, *record.WhitelistedAt, time.Millisecond)
		assert.True(t, record.HasWhitelistRef())
	})

	t.Run("whitelist ref and timestamp are kept on repeat", func(t *testing.T) {
		later := now.Add(time.Hour)
		input := buildWhitelistedInput("alice", testWalletA, later)
		input.WhitelistTxRef = ptr(testMintTx)

		record, err := store.UpsertClaim(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, testTxRef, *record.WhitelistTxRef)
		assert.WithinDuration(t, now, *record.WhitelistedAt, time.Millisecond)
	})

	t.Run("whitelisted cannot go back to pending", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistInput("alice", testWalletA, domain.ClaimStatusPendingWhitelist))
		assert.ErrorIs(t, err, ErrTransitionRejected)

		record, err := store.GetClaimByHandle(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusWhitelisted, record.Status)
	})

	t.Run("different wallet is rejected and original kept", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistedInput("alice", testWalletB, now))
		assert.ErrorIs(t, err, ErrTransitionRejected)

		record, err := store.GetClaimByHandle(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, testWalletA, record.Wallet())
	})

	t.Run("wallet comparison is case-insensitive", func(t *testing.T) {
		record, err := store.UpsertClaim(ctx, buildWhitelistedInput("alice", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", now))
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusWhitelisted, record.Status)
	})

	t.Run("failure then retry", func(t *testing.T) {
		failed := buildWhitelistInput("bob", testWalletB, domain.ClaimStatusWhitelistFailed)
		failed.ErrorMessage = ptr("upstream timeout")

		record, err := store.UpsertClaim(ctx, failed)
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusWhitelistFailed, record.Status)
		require.NotNil(t, record.ErrorMessage)
		assert.Equal(t, "upstream timeout", *record.ErrorMessage)

		record, err = store.UpsertClaim(ctx, buildWhitelistInput("bob", testWalletB, domain.ClaimStatusPendingWhitelist))
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusPendingWhitelist, record.Status)
		assert.Nil(t, record.ErrorMessage)
	})

	t.Run("invalid status is refused before touching the database", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistInput("carol", testWalletA, domain.ClaimStatus("bogus")))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTransitionRejected)
	})
}

// =============================================================================
// Test: UpsertClaim claimed state
// =============================================================================

func testUpsertClaimClaimed(t *testing.T, store Store) {
	ctx := context.Background()
	whitelistedAt := time.Now().UTC().Add(-time.Minute).Truncate(time.Millisecond)
	claimedAt := whitelistedAt.Add(time.Minute)

	t.Run("claim requires an existing row", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildClaimedInput("alice", testWalletA, "7", claimedAt))
		assert.ErrorIs(t, err, ErrTransitionRejected)

		record, err := store.GetClaimByHandle(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("whitelisted row is claimed", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistedInput("alice", testWalletA, whitelistedAt))
		require.NoError(t, err)

		record, err := store.UpsertClaim(ctx, buildClaimedInput("alice", testWalletA, "7", claimedAt))
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimStatusClaimed, record.Status)
		require.NotNil(t, record.TokenID)
		assert.Equal(t, "7", *record.TokenID)
		require.NotNil(t, record.MintTxRef)
		assert.Equal(t, testMintTx, *record.MintTxRef)
		require.NotNil(t, record.ClaimedAt)
		assert.False(t, record.ClaimedAt.Before(*record.WhitelistedAt))
		assert.True(t, record.IsClaimed())
	})

	t.Run("claimed row is immutable", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildClaimedInput("alice", testWalletA, "8", claimedAt))
		assert.ErrorIs(t, err, ErrTransitionRejected)

		_, err = store.UpsertClaim(ctx, buildWhitelistedInput("alice", testWalletA, claimedAt))
		assert.ErrorIs(t, err, ErrTransitionRejected)

		record, err := store.GetClaimByHandle(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "7", *record.TokenID)
		assert.Equal(t, domain.ClaimStatusClaimed, record.Status)
	})

	t.Run("claim with a different wallet is rejected", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistedInput("bob", testWalletA, whitelistedAt))
		require.NoError(t, err)

		_, err = store.UpsertClaim(ctx, buildClaimedInput("bob", testWalletB, "9", claimedAt))
		assert.ErrorIs(t, err, ErrTransitionRejected)
	})

	t.Run("claim without token id still terminates the row", func(t *testing.T) {
		_, err := store.UpsertClaim(ctx, buildWhitelistInput("carol", testWalletB, domain.ClaimStatusPendingWhitelist))
		require.NoError(t, err)

		input := buildClaimedInput("carol", testWalletB, "", claimedAt)
		input.TokenID = nil
		record, err := store.UpsertClaim(ctx, input)
		require.NoError(t, err)
		assert.Nil(t, record.TokenID)
		assert.True(t, record.IsClaimed())

		_, err = store.UpsertClaim(ctx, buildClaimedInput("carol", testWalletB, "10", claimedAt))
		assert.ErrorIs(t, err, ErrTransitionRejected)
	})
}

func testPing(t *testing.T, store Store) {
	require.NoError(t, store.Ping(context.Background()))
}

// RunStoreTests runs the store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Ping", testPing},
		{"EligibleHandles", testEligibleHandles},
		{"GetClaimByHandle", testGetClaimByHandle},
		{"UpsertClaimWhitelist", testUpsertClaimWhitelist},
		{"UpsertClaimClaimed", testUpsertClaimClaimed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
