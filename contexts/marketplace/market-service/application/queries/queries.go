package queries

import (
	"context"
	"log/slog"
	"strings"

	application "curio/contexts/marketplace/market-service/application"
	"curio/contexts/marketplace/market-service/domain/entities"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"
)

type GetListingQuery struct {
	ListingID uint64
}

type GetListingResult struct {
	Listing entities.Listing
}

type GetListingUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u GetListingUseCase) Execute(ctx context.Context, query GetListingQuery) (GetListingResult, error) {
	listing, err := u.Listings.GetListing(ctx, query.ListingID)
	if err != nil {
		application.ResolveLogger(u.Logger).Warn("get listing failed",
			"event", "get_listing_failed",
			"module", "marketplace/market-service",
			"layer", "application",
			"listing_id", query.ListingID,
			"error", err.Error(),
		)
		return GetListingResult{}, err
	}
	return GetListingResult{Listing: listing}, nil
}

type ListListingsResult struct {
	Listings []entities.Listing
}

type ListListingsUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u ListListingsUseCase) Execute(ctx context.Context) (ListListingsResult, error) {
	listings, err := u.Listings.ListListings(ctx)
	if err != nil {
		return ListListingsResult{}, err
	}
	return ListListingsResult{Listings: listings}, nil
}

type GetBalanceQuery struct {
	Account string
}

type GetBalanceResult struct {
	Account string
	Balance int64
}

type GetBalanceUseCase struct {
	Wallets ports.WalletRepository
	Logger  *slog.Logger
}

func (u GetBalanceUseCase) Execute(ctx context.Context, query GetBalanceQuery) (GetBalanceResult, error) {
	if strings.TrimSpace(query.Account) == "" {
		return GetBalanceResult{}, domainerrors.ErrInvalidDeposit
	}
	balance, err := u.Wallets.Balance(ctx, query.Account)
	if err != nil {
		return GetBalanceResult{}, err
	}
	return GetBalanceResult{Account: query.Account, Balance: balance}, nil
}
