package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/og-claim/internal/adapter"
)

// nftContractABI covers the read-only methods of the OG NFT contract
const nftContractABI = `[
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"hasMinted","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"isWhitelisted","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getCurrentTokenId","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// NFTContract reads mint and whitelist state from the OG NFT contract
//
//go:generate mockgen -source=contract.go -destination=../../mocks/nft_contract.go -package=mocks -mock_names=NFTContract=MockNFTContract
type NFTContract interface {
	// HasMinted reports whether the wallet has already minted
	HasMinted(ctx context.Context, address string) (bool, error)

	// IsWhitelisted reports whether the wallet may mint
	IsWhitelisted(ctx context.Context, address string) (bool, error)

	// CurrentTokenID returns the id the next mint will receive
	CurrentTokenID(ctx context.Context) (*big.Int, error)
}

type nftContract struct {
	address common.Address
	client  adapter.EthClient
	abi     abi.ABI
}

// NewNFTContract creates a contract reader bound to contractAddress
func NewNFTContract(contractAddress string, client adapter.EthClient) (NFTContract, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(nftContractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &nftContract{
		address: common.HexToAddress(contractAddress),
		client:  client,
		abi:     parsed,
	}, nil
}

// HasMinted calls hasMinted(address)
func (c *nftContract) HasMinted(ctx context.Context, address string) (bool, error) {
	return c.callBool(ctx, "hasMinted", address)
}

// IsWhitelisted calls isWhitelisted(address)
func (c *nftContract) IsWhitelisted(ctx context.Context, address string) (bool, error) {
	return c.callBool(ctx, "isWhitelisted", address)
}

// CurrentTokenID calls getCurrentTokenId()
func (c *nftContract) CurrentTokenID(ctx context.Context) (*big.Int, error) {
	values, err := c.call(ctx, "getCurrentTokenId")
	if err != nil {
		return nil, err
	}

	id, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getCurrentTokenId result type %T", values[0])
	}

	return id, nil
}

func (c *nftContract) callBool(ctx context.Context, method string, address string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, fmt.Errorf("invalid address: %s", address)
	}

	values, err := c.call(ctx, method, common.HexToAddress(address))
	if err != nil {
		return false, err
	}

	result, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected %s result type %T", method, values[0])
	}

	return result, nil
}

func (c *nftContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	values, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty %s result", method)
	}

	return values, nil
}
