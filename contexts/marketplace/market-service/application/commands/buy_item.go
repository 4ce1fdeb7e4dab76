package commands

import (
	"context"
	"log/slog"
	"strings"

	application "curio/contexts/marketplace/market-service/application"
	"curio/contexts/marketplace/market-service/domain/entities"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"
)

type BuyItemCommand struct {
	ListingID uint64
	Buyer     string
	// Payment is the value attached to the purchase. It must cover the listed
	// price; the full amount is forwarded to the seller, with no royalty
	// deduction and no refund of any excess.
	Payment int64
}

type BuyItemResult struct {
	Listing entities.Listing
}

type BuyItemUseCase struct {
	Listings        ports.ListingRepository
	Registries      ports.RegistryResolver
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	OperatorAccount string
	Logger          *slog.Logger
}

func (u BuyItemUseCase) Execute(ctx context.Context, cmd BuyItemCommand) (BuyItemResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Buyer) == "" {
		return BuyItemResult{}, domainerrors.ErrInvalidListingRequest
	}

	listing, err := u.Listings.GetListing(ctx, cmd.ListingID)
	if err != nil {
		return BuyItemResult{}, err
	}
	if listing.Sold {
		return BuyItemResult{}, domainerrors.ErrAlreadySold
	}
	if cmd.Payment < listing.Price {
		logger.Warn("purchase rejected for short payment",
			"event", "buy_item_short_payment",
			"module", "marketplace/market-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"price", listing.Price,
			"payment", cmd.Payment,
		)
		return BuyItemResult{}, domainerrors.ErrInsufficientFunds
	}

	// Resolve up front so an unknown registry fails before any write.
	if _, err := u.Registries.Resolve(ctx, listing.RegistryRef); err != nil {
		return BuyItemResult{}, err
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return BuyItemResult{}, err
	}
	now := u.Clock.Now().UTC()
	event := ports.MarketEvent{
		EventID:     eventID,
		EventType:   EventTypeSaleCompleted,
		ListingID:   listing.ListingID,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Seller:      listing.Seller,
		Buyer:       cmd.Buyer,
		Price:       listing.Price,
		Payment:     cmd.Payment,
		Currency:    listing.Currency,
		OccurredAt:  now,
	}

	// The repository owns the settlement write boundary: ownership transfer,
	// sold flip, and fund movement commit together or not at all.
	sale := ports.SaleInstruction{
		Listing:  listing,
		Buyer:    cmd.Buyer,
		Payment:  cmd.Payment,
		Operator: u.OperatorAccount,
	}
	if err := u.Listings.SettleSale(ctx, sale, event); err != nil {
		logger.Error("settlement failed",
			"event", "buy_item_settlement_failed",
			"module", "marketplace/market-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"buyer", cmd.Buyer,
			"error", err.Error(),
		)
		return BuyItemResult{}, err
	}

	logger.Info("sale completed",
		"event", "sale_completed",
		"module", "marketplace/market-service",
		"layer", "application",
		"listing_id", listing.ListingID,
		"registry_ref", listing.RegistryRef,
		"token_id", listing.TokenID,
		"seller", listing.Seller,
		"buyer", cmd.Buyer,
		"payment", cmd.Payment,
	)
	return BuyItemResult{Listing: listing.MarkSold(now)}, nil
}
