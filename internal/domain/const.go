package domain

import "time"

const (
	// Handle constants
	HANDLE_SIGIL      = "@"
	MAX_HANDLE_LENGTH = 15

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Signature constants
	DEFAULT_SIGNATURE_MAX_AGE  = 5 * time.Minute
	MAX_SIGNATURE_CLOCK_SKEW   = 1 * time.Minute
	DEFAULT_CHALLENGE_PURPOSE  = "OG NFT claim"
	MAX_ELIGIBLE_HANDLES_BATCH = 1000
)
