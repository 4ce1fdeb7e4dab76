package errors

import "errors"

var (
	ErrListingNotFound          = errors.New("listing not found")
	ErrRegistryNotFound         = errors.New("registry not found")
	ErrTokenNotFound            = errors.New("token not found in registry")
	ErrNotTokenOwner            = errors.New("not NFT owner")
	ErrInvalidPrice             = errors.New("price must be positive")
	ErrAlreadySold              = errors.New("NFT sold")
	ErrInsufficientFunds        = errors.New("insufficient fund")
	ErrPaymentFailed            = errors.New("payment transfer could not complete")
	ErrTransferRejected         = errors.New("registry rejected ownership transfer")
	ErrInvalidListingRequest    = errors.New("invalid listing request")
	ErrInvalidCollectionRequest = errors.New("invalid collection request")
	ErrInvalidDeposit           = errors.New("deposit amount must be positive")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
