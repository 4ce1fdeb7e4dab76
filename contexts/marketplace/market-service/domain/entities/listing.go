package entities

import (
	"strings"
	"time"

	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
)

// Listing offers one token at a fixed price. ListingID is assigned by the
// repository counter; the only mutation a listing ever sees is the one-way
// Sold flip at settlement. Listings are audit records and are never deleted.
type Listing struct {
	ListingID   uint64
	RegistryRef string
	TokenID     uint64
	Price       int64
	Currency    string
	Seller      string
	Sold        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewListing validates a listing at creation time. The currency label is an
// opaque tag and is deliberately not validated or converted.
func NewListing(
	registryRef string,
	tokenID uint64,
	price int64,
	currency string,
	seller string,
	createdAt time.Time,
) (Listing, error) {
	if strings.TrimSpace(registryRef) == "" || strings.TrimSpace(seller) == "" || tokenID == 0 {
		return Listing{}, domainerrors.ErrInvalidListingRequest
	}
	if price <= 0 {
		return Listing{}, domainerrors.ErrInvalidPrice
	}

	return Listing{
		RegistryRef: registryRef,
		TokenID:     tokenID,
		Price:       price,
		Currency:    strings.TrimSpace(currency),
		Seller:      seller,
		Sold:        false,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}, nil
}

func (l Listing) Open() bool {
	return !l.Sold
}

// MarkSold flips the terminal sold flag.
func (l Listing) MarkSold(now time.Time) Listing {
	l.Sold = true
	l.UpdatedAt = now.UTC()
	return l
}
