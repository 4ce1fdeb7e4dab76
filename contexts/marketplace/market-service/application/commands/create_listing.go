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

type CreateListingCommand struct {
	Seller      string
	RegistryRef string
	TokenID     uint64
	Price       int64
	Currency    string
}

type CreateListingResult struct {
	Listing entities.Listing
}

type CreateListingUseCase struct {
	Listings    ports.ListingRepository
	Registries  ports.RegistryResolver
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateListingUseCase) Execute(ctx context.Context, cmd CreateListingCommand) (CreateListingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Seller) == "" {
		return CreateListingResult{}, domainerrors.ErrInvalidListingRequest
	}

	registry, err := u.Registries.Resolve(ctx, cmd.RegistryRef)
	if err != nil {
		return CreateListingResult{}, err
	}

	owner, err := registry.OwnerOf(ctx, cmd.TokenID)
	if err != nil {
		return CreateListingResult{}, err
	}
	// Ownership stays with the seller until settlement; listing only records
	// that it held at creation time.
	if owner != cmd.Seller {
		logger.Warn("listing rejected for non-owner",
			"event", "create_listing_rejected",
			"module", "marketplace/market-service",
			"layer", "application",
			"registry_ref", cmd.RegistryRef,
			"token_id", cmd.TokenID,
			"seller", cmd.Seller,
		)
		return CreateListingResult{}, domainerrors.ErrNotTokenOwner
	}

	now := u.Clock.Now().UTC()
	listing, err := entities.NewListing(cmd.RegistryRef, cmd.TokenID, cmd.Price, cmd.Currency, cmd.Seller, now)
	if err != nil {
		return CreateListingResult{}, err
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateListingResult{}, err
	}
	event := ports.MarketEvent{
		EventID:     eventID,
		EventType:   EventTypeListingCreated,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Seller:      listing.Seller,
		Price:       listing.Price,
		Currency:    listing.Currency,
		OccurredAt:  now,
	}

	listingID, err := u.Listings.CreateListingWithOutbox(ctx, listing, event)
	if err != nil {
		logger.Error("listing write failed",
			"event", "create_listing_write_failed",
			"module", "marketplace/market-service",
			"layer", "application",
			"registry_ref", cmd.RegistryRef,
			"token_id", cmd.TokenID,
			"error", err.Error(),
		)
		return CreateListingResult{}, err
	}
	listing.ListingID = listingID

	logger.Info("listing created",
		"event", "listing_created",
		"module", "marketplace/market-service",
		"layer", "application",
		"listing_id", listingID,
		"registry_ref", listing.RegistryRef,
		"token_id", listing.TokenID,
		"price", listing.Price,
		"currency", listing.Currency,
	)
	return CreateListingResult{Listing: listing}, nil
}
