package application

import (
	"context"
	"log/slog"
	"strings"

	"curio/contexts/token-registry/token-ledger-service/domain/entities"
	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	"curio/contexts/token-registry/token-ledger-service/ports"
)

const (
	EventTypeMinted           = "token.minted"
	EventTypeOperatorApproved = "token.operator_approved"
	EventTypeBurned           = "token.burned"
	EventTypeRoyaltyExcluded  = "token.royalty_excluded"
	EventTypeTransferred      = "token.transferred"
)

// Service exposes the token ledger operations. Minting is gated to the
// registry admin or an approved operator of the admin; burn to the current
// owner; exclusion to the creator; transfer to the owner or an approved
// operator of the owner.
type Service struct {
	Items       ports.ItemRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) Mint(
	ctx context.Context,
	registryRef string,
	caller string,
	uri string,
	royaltyRate int,
) (entities.Item, error) {
	logger := ResolveLogger(s.Logger)
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Item{}, domainerrors.ErrInvalidMintRequest
	}

	registry, err := s.Items.GetRegistry(ctx, registryRef)
	if err != nil {
		return entities.Item{}, err
	}

	if caller != registry.Admin {
		approved, err := s.Items.IsOperator(ctx, registry.Ref, registry.Admin, caller)
		if err != nil {
			return entities.Item{}, err
		}
		if !approved {
			logger.Warn("mint rejected for caller",
				"event", "token_mint_rejected",
				"module", "token-registry/token-ledger-service",
				"layer", "application",
				"registry_ref", registry.Ref,
				"caller", caller,
			)
			return entities.Item{}, domainerrors.ErrNotAllowed
		}
	}

	now := s.Clock.Now().UTC()
	item, err := entities.NewItem(registry.Ref, uri, caller, royaltyRate, now)
	if err != nil {
		return entities.Item{}, err
	}

	mintEventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Item{}, err
	}
	approvalEventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Item{}, err
	}

	mintEvent := ports.TokenEvent{
		EventID:     mintEventID,
		EventType:   EventTypeMinted,
		RegistryRef: registry.Ref,
		Account:     caller,
		OccurredAt:  now,
	}
	// Mint grants the bound marketplace blanket operator rights over the
	// minter's holdings so settlement needs no per-sale approval.
	approvalEvent := ports.TokenEvent{
		EventID:     approvalEventID,
		EventType:   EventTypeOperatorApproved,
		RegistryRef: registry.Ref,
		Account:     caller,
		Operator:    registry.OperatorAccount,
		OccurredAt:  now,
	}

	tokenID, err := s.Items.MintItem(ctx, item, registry.OperatorAccount, mintEvent, approvalEvent)
	if err != nil {
		logger.Error("mint write failed",
			"event", "token_mint_write_failed",
			"module", "token-registry/token-ledger-service",
			"layer", "application",
			"registry_ref", registry.Ref,
			"caller", caller,
			"error", err.Error(),
		)
		return entities.Item{}, err
	}
	item.TokenID = tokenID

	logger.Info("token minted",
		"event", "token_minted",
		"module", "token-registry/token-ledger-service",
		"layer", "application",
		"registry_ref", registry.Ref,
		"token_id", tokenID,
		"owner", caller,
		"royalty_rate", royaltyRate,
	)
	return item, nil
}

func (s Service) Burn(ctx context.Context, registryRef string, caller string, tokenID uint64) error {
	logger := ResolveLogger(s.Logger)

	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return err
	}
	if caller != item.Owner {
		return domainerrors.ErrBurnNotAuthorised
	}

	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	event := ports.TokenEvent{
		EventID:     eventID,
		EventType:   EventTypeBurned,
		RegistryRef: registryRef,
		TokenID:     tokenID,
		Account:     caller,
		OccurredAt:  s.Clock.Now().UTC(),
	}
	// The repository rechecks ownership inside its write boundary; the read
	// above only produces the fast rejection for plainly unauthorised callers.
	if err := s.Items.BurnItem(ctx, registryRef, tokenID, caller, event); err != nil {
		return err
	}

	logger.Info("token burned",
		"event", "token_burned",
		"module", "token-registry/token-ledger-service",
		"layer", "application",
		"registry_ref", registryRef,
		"token_id", tokenID,
	)
	return nil
}

func (s Service) SetExcluded(
	ctx context.Context,
	registryRef string,
	caller string,
	excluded bool,
	tokenID uint64,
) (entities.Item, error) {
	logger := ResolveLogger(s.Logger)

	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return entities.Item{}, err
	}

	now := s.Clock.Now().UTC()
	updated, err := item.WithExclusion(caller, excluded, now)
	if err != nil {
		return entities.Item{}, err
	}

	var event *ports.TokenEvent
	if excluded {
		eventID, err := s.IDGenerator.NewID(ctx)
		if err != nil {
			return entities.Item{}, err
		}
		event = &ports.TokenEvent{
			EventID:     eventID,
			EventType:   EventTypeRoyaltyExcluded,
			RegistryRef: registryRef,
			TokenID:     tokenID,
			Account:     caller,
			OccurredAt:  now,
		}
	}
	if err := s.Items.UpdateExclusion(ctx, updated, event); err != nil {
		return entities.Item{}, err
	}

	logger.Info("royalty exclusion updated",
		"event", "token_royalty_exclusion_updated",
		"module", "token-registry/token-ledger-service",
		"layer", "application",
		"registry_ref", registryRef,
		"token_id", tokenID,
		"excluded", excluded,
	)
	return updated, nil
}

func (s Service) RoyaltyInfo(ctx context.Context, registryRef string, tokenID uint64) (entities.Royalty, error) {
	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return entities.Royalty{}, err
	}
	return item.Royalty(), nil
}

func (s Service) OwnerOf(ctx context.Context, registryRef string, tokenID uint64) (string, error) {
	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return "", err
	}
	return item.Owner, nil
}

func (s Service) TokenURI(ctx context.Context, registryRef string, tokenID uint64) (string, error) {
	registry, err := s.Items.GetRegistry(ctx, registryRef)
	if err != nil {
		return "", err
	}
	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return "", err
	}
	return item.MetadataURI(registry.BaseURI), nil
}

// Transfer is the operator-gated ownership primitive used by settlement.
func (s Service) Transfer(
	ctx context.Context,
	registryRef string,
	operator string,
	from string,
	to string,
	tokenID uint64,
) error {
	logger := ResolveLogger(s.Logger)
	if strings.TrimSpace(to) == "" {
		return domainerrors.ErrTransferNotAuthorised
	}

	item, err := s.Items.GetItem(ctx, registryRef, tokenID)
	if err != nil {
		return err
	}
	if item.Owner != from {
		return domainerrors.ErrTransferNotAuthorised
	}
	if operator != item.Owner {
		approved, err := s.Items.IsOperator(ctx, registryRef, item.Owner, operator)
		if err != nil {
			return err
		}
		if !approved {
			logger.Warn("transfer rejected for operator",
				"event", "token_transfer_rejected",
				"module", "token-registry/token-ledger-service",
				"layer", "application",
				"registry_ref", registryRef,
				"token_id", tokenID,
				"operator", operator,
			)
			return domainerrors.ErrTransferNotAuthorised
		}
	}

	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	event := ports.TokenEvent{
		EventID:     eventID,
		EventType:   EventTypeTransferred,
		RegistryRef: registryRef,
		TokenID:     tokenID,
		Account:     to,
		Operator:    operator,
		OccurredAt:  s.Clock.Now().UTC(),
	}
	if err := s.Items.TransferItem(ctx, registryRef, tokenID, from, to, event); err != nil {
		return err
	}

	logger.Info("token transferred",
		"event", "token_transferred",
		"module", "token-registry/token-ledger-service",
		"layer", "application",
		"registry_ref", registryRef,
		"token_id", tokenID,
		"from", from,
		"to", to,
	)
	return nil
}
