package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Network selects which contract deployment the service targets
type Network string

const (
	NetworkTestnet  Network = "testnet"
	NetworkMainnet  Network = "mainnet"
	NetworkArbitrum Network = "arbitrum"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainArbitrumOne     Chain = "eip155:42161"
	ChainArbitrumSepolia Chain = "eip155:421614"
)

// NetworkPreset holds the public defaults for a network
type NetworkPreset struct {
	Chain         Chain
	ChainID       int64
	DefaultRPCURL string
	// RPCEnvVar is the environment variable that overrides DefaultRPCURL for this network
	RPCEnvVar string
}

var networkPresets = map[Network]NetworkPreset{
	NetworkTestnet: {
		Chain:         ChainArbitrumSepolia,
		ChainID:       421614,
		DefaultRPCURL: "https://sepolia-rollup.arbitrum.io/rpc",
		RPCEnvVar:     "TESTNET_RPC_URL",
	},
	NetworkMainnet: {
		Chain:         ChainEthereumMainnet,
		ChainID:       1,
		DefaultRPCURL: "https://eth.llamarpc.com",
		RPCEnvVar:     "MAINNET_RPC_URL",
	},
	NetworkArbitrum: {
		Chain:         ChainArbitrumOne,
		ChainID:       42161,
		DefaultRPCURL: "https://arb1.arbitrum.io/rpc",
		RPCEnvVar:     "ARBITRUM_RPC_URL",
	},
}

// IsValidNetwork checks if a network is one of the supported presets
func IsValidNetwork(network Network) bool {
	_, ok := networkPresets[network]
	return ok
}

// ParseNetwork parses a network name. Empty input selects the testnet.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if n == "" {
		return NetworkTestnet, nil
	}
	if !IsValidNetwork(n) {
		return "", fmt.Errorf("unsupported network: %s", s)
	}
	return n, nil
}

// Preset returns the public defaults for the network
func (n Network) Preset() NetworkPreset {
	if p, ok := networkPresets[n]; ok {
		return p
	}
	return networkPresets[NetworkTestnet]
}

var (
	txRefPattern   = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	tokenIDPattern = regexp.MustCompile(`^[0-9]{1,78}$`)
)

// IsValidAddress checks if s is a 0x-prefixed 20-byte hex address.
// Mixed-case input must carry a valid EIP-55 checksum.
func IsValidAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}

	body := s[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}

	return common.HexToAddress(s).Hex() == s
}

// ChecksumAddress validates and returns the EIP-55 checksummed form of an address
func ChecksumAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !IsValidAddress(s) {
		return "", NewValidationError("invalid wallet address format", ErrInvalidAddress)
	}
	return common.HexToAddress(s).Hex(), nil
}

// SameAddress compares two hex addresses case-insensitively
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// IsValidTxRef checks if s is a 0x-prefixed 32-byte transaction hash
func IsValidTxRef(s string) bool {
	return txRefPattern.MatchString(s)
}

// IsValidTokenID checks if s is a base-10 unsigned integer
func IsValidTokenID(s string) bool {
	return tokenIDPattern.MatchString(s)
}
