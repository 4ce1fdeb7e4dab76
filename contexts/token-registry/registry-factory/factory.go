package registryfactory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	marketerrors "curio/contexts/marketplace/market-service/domain/errors"
	marketports "curio/contexts/marketplace/market-service/ports"
	ledgerapp "curio/contexts/token-registry/token-ledger-service/application"
	ledgererrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	ledgerports "curio/contexts/token-registry/token-ledger-service/ports"
)

// Hub is the single coupling point between the marketplace and the token
// ledger: it creates new ledger-backed registries bound to the marketplace
// operator account and resolves registry references to facades satisfying the
// marketplace's registry contract.
type Hub struct {
	Items           ledgerports.ItemRepository
	Service         ledgerapp.Service
	IDGenerator     ledgerports.IDGenerator
	Clock           ledgerports.Clock
	BaseURI         string
	OperatorAccount string
	Logger          *slog.Logger
}

func (h Hub) CreateRegistry(ctx context.Context, input marketports.CreateRegistryInput) (marketports.TokenRegistry, error) {
	if strings.TrimSpace(input.Creator) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, marketerrors.ErrInvalidCollectionRequest
	}

	ref, err := h.IDGenerator.NewID(ctx)
	if err != nil {
		return nil, err
	}
	registry := ledgerports.Registry{
		Ref:             ref,
		Name:            strings.TrimSpace(input.Name),
		Symbol:          strings.TrimSpace(input.Symbol),
		ImageURI:        strings.TrimSpace(input.ImageURI),
		Admin:           input.Creator,
		BaseURI:         h.BaseURI,
		OperatorAccount: h.OperatorAccount,
		CreatedAt:       h.now(),
	}
	if err := h.Items.CreateRegistry(ctx, registry); err != nil {
		return nil, err
	}

	ledgerapp.ResolveLogger(h.Logger).Info("registry created",
		"event", "registry_created",
		"module", "token-registry/registry-factory",
		"layer", "application",
		"registry_ref", ref,
		"admin", input.Creator,
		"name", registry.Name,
	)
	return Facade{RegistryRef: ref, Service: h.Service}, nil
}

func (h Hub) Resolve(ctx context.Context, ref string) (marketports.TokenRegistry, error) {
	if _, err := h.Items.GetRegistry(ctx, ref); err != nil {
		if errors.Is(err, ledgererrors.ErrRegistryNotFound) {
			return nil, marketerrors.ErrRegistryNotFound
		}
		return nil, err
	}
	return Facade{RegistryRef: ref, Service: h.Service}, nil
}

func (h Hub) now() time.Time {
	if h.Clock == nil {
		return time.Now().UTC()
	}
	return h.Clock.Now().UTC()
}

// Facade adapts the ledger service to the marketplace's registry contract,
// translating ledger errors into marketplace ones at the context boundary.
type Facade struct {
	RegistryRef string
	Service     ledgerapp.Service
}

func (f Facade) Ref() string {
	return f.RegistryRef
}

func (f Facade) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	owner, err := f.Service.OwnerOf(ctx, f.RegistryRef, tokenID)
	if err != nil {
		return "", translate(err)
	}
	return owner, nil
}

func (f Facade) RoyaltyInfo(ctx context.Context, tokenID uint64) (marketports.RoyaltyInfo, error) {
	royalty, err := f.Service.RoyaltyInfo(ctx, f.RegistryRef, tokenID)
	if err != nil {
		return marketports.RoyaltyInfo{}, translate(err)
	}
	return marketports.RoyaltyInfo{
		Creator:    royalty.Creator,
		Amount:     royalty.Amount,
		IsExcluded: royalty.IsExcluded,
	}, nil
}

func (f Facade) Transfer(ctx context.Context, operator string, from string, to string, tokenID uint64) error {
	if err := f.Service.Transfer(ctx, f.RegistryRef, operator, from, to, tokenID); err != nil {
		if errors.Is(err, ledgererrors.ErrTransferNotAuthorised) {
			return marketerrors.ErrTransferRejected
		}
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ledgererrors.ErrTokenNotFound):
		return marketerrors.ErrTokenNotFound
	case errors.Is(err, ledgererrors.ErrRegistryNotFound):
		return marketerrors.ErrRegistryNotFound
	default:
		return err
	}
}
