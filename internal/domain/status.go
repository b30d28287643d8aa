package domain

// ClaimStatus is the lifecycle state of a ledger row
type ClaimStatus string

const (
	// ClaimStatusNone is the state of a handle with no ledger row
	ClaimStatusNone             ClaimStatus = ""
	ClaimStatusPendingWhitelist ClaimStatus = "pending_whitelist"
	ClaimStatusWhitelisted      ClaimStatus = "whitelisted"
	ClaimStatusWhitelistFailed  ClaimStatus = "whitelist_failed"
	ClaimStatusClaimed          ClaimStatus = "claimed"
)

// claimTransitions lists, for each state, the states it may move to.
// Self-transitions let idempotent retries re-upsert the same state.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusNone: {
		ClaimStatusPendingWhitelist,
		ClaimStatusWhitelisted,
		ClaimStatusWhitelistFailed,
	},
	ClaimStatusPendingWhitelist: {
		ClaimStatusPendingWhitelist,
		ClaimStatusWhitelisted,
		ClaimStatusWhitelistFailed,
		ClaimStatusClaimed,
	},
	ClaimStatusWhitelisted: {
		ClaimStatusWhitelisted,
		ClaimStatusClaimed,
	},
	ClaimStatusWhitelistFailed: {
		ClaimStatusWhitelistFailed,
		ClaimStatusPendingWhitelist,
		ClaimStatusWhitelisted,
		ClaimStatusClaimed,
	},
	ClaimStatusClaimed: {},
}

// Valid checks if the status is one of the persisted states
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPendingWhitelist, ClaimStatusWhitelisted, ClaimStatusWhitelistFailed, ClaimStatusClaimed:
		return true
	}
	return false
}

// CanTransition reports whether a row in state from may move to state to
func CanTransition(from, to ClaimStatus) bool {
	for _, s := range claimTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PredecessorsOf returns the persisted states that may move to state to
func PredecessorsOf(to ClaimStatus) []ClaimStatus {
	var preds []ClaimStatus
	for _, from := range []ClaimStatus{
		ClaimStatusPendingWhitelist,
		ClaimStatusWhitelisted,
		ClaimStatusWhitelistFailed,
		ClaimStatusClaimed,
	} {
		if CanTransition(from, to) {
			preds = append(preds, from)
		}
	}
	return preds
}
