package signature

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/feral-file/og-claim/internal/domain"
)

const challengeTemplate = "I am the owner of wallet address: %s\n\nTimestamp: %d\n\nThis signature proves I own this wallet for %s."

var timestampPattern = regexp.MustCompile(`Timestamp: (\d+)`)

// Verifier builds wallet ownership challenges and checks signatures over them
type Verifier struct {
	purpose string
	maxAge  time.Duration
}

// NewVerifier creates a verifier. Empty purpose and zero maxAge fall back to defaults.
func NewVerifier(purpose string, maxAge time.Duration) *Verifier {
	if purpose == "" {
		purpose = domain.DEFAULT_CHALLENGE_PURPOSE
	}
	if maxAge <= 0 {
		maxAge = domain.DEFAULT_SIGNATURE_MAX_AGE
	}
	return &Verifier{purpose: purpose, maxAge: maxAge}
}

// MaxAge returns the freshness window
func (v *Verifier) MaxAge() time.Duration {
	return v.maxAge
}

// BuildChallenge returns the exact message a wallet must sign at now
func (v *Verifier) BuildChallenge(address string, now time.Time) string {
	return BuildChallenge(address, now, v.purpose)
}

// IsFresh reports whether the timestamp embedded in message is within the freshness window
func (v *Verifier) IsFresh(message string, now time.Time) bool {
	return IsFresh(message, v.maxAge, now)
}

// Verify reports whether signature over message was produced by address
func (v *Verifier) Verify(address, message, signature string) bool {
	return Verify(address, message, signature)
}

// BuildChallenge formats the ownership challenge for address
func BuildChallenge(address string, now time.Time, purpose string) string {
	return fmt.Sprintf(challengeTemplate, address, now.UnixMilli(), purpose)
}

// ChallengeTimestamp extracts the unix-millis timestamp from a challenge message
func ChallengeTimestamp(message string) (time.Time, bool) {
	m := timestampPattern.FindStringSubmatch(message)
	if len(m) != 2 {
		return time.Time{}, false
	}

	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(ms), true
}

// IsFresh reports whether the challenge timestamp is younger than maxAge at now.
// Timestamps too far in the future are rejected.
func IsFresh(message string, maxAge time.Duration, now time.Time) bool {
	ts, ok := ChallengeTimestamp(message)
	if !ok {
		return false
	}

	age := now.Sub(ts)
	if age < -domain.MAX_SIGNATURE_CLOCK_SKEW {
		return false
	}

	return age < maxAge
}

// HashMessage computes the EIP-191 personal_sign hash of message
func HashMessage(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// RecoverAddress recovers the signer address of an EIP-191 signature
func RecoverAddress(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(ensureHexPrefix(signature))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// Wallets sign with v in {27, 28}; recovery expects {0, 1}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id: %d", sig[crypto.RecoveryIDOffset])
	}

	pub, err := crypto.SigToPub(HashMessage(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether signature over message recovers to address.
// Malformed input yields false.
func Verify(address, message, signature string) bool {
	if !common.IsHexAddress(address) || message == "" || signature == "" {
		return false
	}

	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return false
	}

	return strings.EqualFold(recovered.Hex(), common.HexToAddress(address).Hex())
}

func ensureHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}
