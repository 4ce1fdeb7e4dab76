package commands

import (
	"context"
	"log/slog"
	"strings"

	application "curio/contexts/marketplace/market-service/application"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"
)

const (
	EventTypeCollectionCreated = "market.collection_created"
	EventTypeListingCreated    = "market.listing_created"
	EventTypeSaleCompleted     = "market.sale_completed"
)

type CreateCollectionCommand struct {
	Creator  string
	Name     string
	Symbol   string
	ImageURI string
}

type CreateCollectionResult struct {
	RegistryRef string
}

// CreateCollectionUseCase is a thin delegation to the registry factory; the
// marketplace only records the collection-created event.
type CreateCollectionUseCase struct {
	Factory     ports.RegistryFactory
	Listings    ports.ListingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateCollectionUseCase) Execute(ctx context.Context, cmd CreateCollectionCommand) (CreateCollectionResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Creator) == "" || strings.TrimSpace(cmd.Name) == "" {
		return CreateCollectionResult{}, domainerrors.ErrInvalidCollectionRequest
	}

	registry, err := u.Factory.CreateRegistry(ctx, ports.CreateRegistryInput{
		Creator:  cmd.Creator,
		Name:     cmd.Name,
		Symbol:   cmd.Symbol,
		ImageURI: cmd.ImageURI,
	})
	if err != nil {
		logger.Error("collection creation failed",
			"event", "create_collection_failed",
			"module", "marketplace/market-service",
			"layer", "application",
			"creator", cmd.Creator,
			"name", cmd.Name,
			"error", err.Error(),
		)
		return CreateCollectionResult{}, err
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCollectionResult{}, err
	}
	event := ports.MarketEvent{
		EventID:     eventID,
		EventType:   EventTypeCollectionCreated,
		RegistryRef: registry.Ref(),
		Seller:      cmd.Creator,
		OccurredAt:  u.Clock.Now().UTC(),
	}
	if err := u.Listings.AppendEvent(ctx, event); err != nil {
		return CreateCollectionResult{}, err
	}

	logger.Info("collection created",
		"event", "collection_created",
		"module", "marketplace/market-service",
		"layer", "application",
		"registry_ref", registry.Ref(),
		"creator", cmd.Creator,
		"name", cmd.Name,
	)
	return CreateCollectionResult{RegistryRef: registry.Ref()}, nil
}
