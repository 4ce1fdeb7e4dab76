package errors

import "errors"

var (
	ErrRegistryNotFound         = errors.New("registry not found")
	ErrTokenNotFound            = errors.New("owner query for nonexistent token")
	ErrNotAllowed               = errors.New("user not allowed")
	ErrRoyaltyTooHigh           = errors.New("royalty above threshold")
	ErrRoyaltyNotSet            = errors.New("royalty not set for token")
	ErrNotTokenCreator          = errors.New("token not yours")
	ErrBurnNotAuthorised        = errors.New("not authorised to burn")
	ErrTransferNotAuthorised    = errors.New("not authorised to transfer")
	ErrInvalidMintRequest       = errors.New("invalid mint request")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
