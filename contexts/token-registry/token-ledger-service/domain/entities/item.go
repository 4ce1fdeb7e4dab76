package entities

import (
	"fmt"
	"strings"
	"time"

	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
)

// RoyaltyCap is the policy ceiling for per-item royalty rates, in percent.
const RoyaltyCap = 50

// Item is one non-fungible token row. TokenID is assigned by the repository
// counter at mint time and never changes; RoyaltyRate is fixed at mint, only
// RoyaltyExcluded may change afterwards.
type Item struct {
	TokenID         uint64
	RegistryRef     string
	URI             string
	Owner           string
	Creator         string
	RoyaltyRate     int
	RoyaltyExcluded bool
	MintedAt        time.Time
	UpdatedAt       time.Time
}

// Royalty is the payout view consumed by settlement: rate as minted plus the
// creator-controlled exclusion flag. Payout math against a price is the
// caller's job; an excluded item pays zero regardless of the stored rate.
type Royalty struct {
	Creator    string
	Amount     int
	IsExcluded bool
}

func NewItem(
	registryRef string,
	uri string,
	minter string,
	royaltyRate int,
	mintedAt time.Time,
) (Item, error) {
	if strings.TrimSpace(registryRef) == "" || strings.TrimSpace(minter) == "" {
		return Item{}, domainerrors.ErrInvalidMintRequest
	}
	if royaltyRate < 0 {
		return Item{}, domainerrors.ErrInvalidMintRequest
	}
	if royaltyRate > RoyaltyCap {
		return Item{}, domainerrors.ErrRoyaltyTooHigh
	}

	return Item{
		RegistryRef:     registryRef,
		URI:             strings.TrimSpace(uri),
		Owner:           minter,
		Creator:         minter,
		RoyaltyRate:     royaltyRate,
		RoyaltyExcluded: false,
		MintedAt:        mintedAt.UTC(),
		UpdatedAt:       mintedAt.UTC(),
	}, nil
}

func (i Item) Royalty() Royalty {
	return Royalty{
		Creator:    i.Creator,
		Amount:     i.RoyaltyRate,
		IsExcluded: i.RoyaltyExcluded,
	}
}

// MetadataURI is the fixed base URI with the decimal token id appended.
func (i Item) MetadataURI(baseURI string) string {
	return fmt.Sprintf("%s%d", baseURI, i.TokenID)
}

// WithExclusion applies the creator-gated royalty exclusion toggle.
// Only the original creator may waive their royalty, and only when a
// non-zero rate was set at mint.
func (i Item) WithExclusion(caller string, excluded bool, now time.Time) (Item, error) {
	if caller != i.Creator {
		return Item{}, domainerrors.ErrNotTokenCreator
	}
	if i.RoyaltyRate == 0 {
		return Item{}, domainerrors.ErrRoyaltyNotSet
	}
	i.RoyaltyExcluded = excluded
	i.UpdatedAt = now.UTC()
	return i, nil
}

// WithOwner rebinds ownership after a transfer.
func (i Item) WithOwner(owner string, now time.Time) Item {
	i.Owner = owner
	i.UpdatedAt = now.UTC()
	return i
}
