package ethereum

// NFTContractABI exposes the contract ABI to external tests
const NFTContractABI = nftContractABI
