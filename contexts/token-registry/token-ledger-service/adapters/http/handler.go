package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "curio/contexts/token-registry/token-ledger-service/application"
	"curio/contexts/token-registry/token-ledger-service/domain/entities"
	httptransport "curio/contexts/token-registry/token-ledger-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// MintHandler godoc
// @Summary Mint a token
// @Description Mints a new token with a royalty rate fixed at mint time. Caller must be the registry admin or an approved operator.
// @Tags token-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param registry_ref path string true "Registry reference"
// @Param request body httptransport.MintRequest true "Mint payload"
// @Success 200 {object} httptransport.MintResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens [post]
func (h Handler) MintHandler(
	ctx context.Context,
	registryRef string,
	caller string,
	req httptransport.MintRequest,
) (httptransport.MintResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("mint request received",
		"event", "http_mint_received",
		"module", "token-registry/token-ledger-service",
		"layer", "transport",
		"registry_ref", registryRef,
	)

	item, err := h.Service.Mint(ctx, registryRef, caller, req.URI, req.RoyaltyRate)
	if err != nil {
		return httptransport.MintResponse{}, err
	}
	metadataURI, err := h.Service.TokenURI(ctx, registryRef, item.TokenID)
	if err != nil {
		return httptransport.MintResponse{}, err
	}
	return httptransport.MintResponse{
		Token:       mapToken(item),
		MetadataURI: metadataURI,
	}, nil
}

// BurnHandler godoc
// @Summary Burn a token
// @Description Destroys a token. Caller must be the current owner.
// @Tags token-ledger
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param registry_ref path string true "Registry reference"
// @Param token_id path int true "Token id"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens/{token_id} [delete]
func (h Handler) BurnHandler(ctx context.Context, registryRef string, caller string, tokenID uint64) error {
	return h.Service.Burn(ctx, registryRef, caller, tokenID)
}

// SetExcludedHandler godoc
// @Summary Set royalty exclusion
// @Description Toggles the royalty exclusion flag. Creator only; requires a non-zero royalty rate.
// @Tags token-ledger
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param registry_ref path string true "Registry reference"
// @Param token_id path int true "Token id"
// @Param request body httptransport.SetExcludedRequest true "Exclusion payload"
// @Success 200 {object} httptransport.SetExcludedResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens/{token_id}/exclusion [post]
func (h Handler) SetExcludedHandler(
	ctx context.Context,
	registryRef string,
	caller string,
	tokenID uint64,
	req httptransport.SetExcludedRequest,
) (httptransport.SetExcludedResponse, error) {
	item, err := h.Service.SetExcluded(ctx, registryRef, caller, req.Excluded, tokenID)
	if err != nil {
		return httptransport.SetExcludedResponse{}, err
	}
	return httptransport.SetExcludedResponse{Token: mapToken(item)}, nil
}

// RoyaltyHandler godoc
// @Summary Read royalty terms
// @Description Returns the creator, royalty rate, and exclusion flag for payout computation.
// @Tags token-ledger
// @Produce json
// @Param registry_ref path string true "Registry reference"
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.RoyaltyResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens/{token_id}/royalty [get]
func (h Handler) RoyaltyHandler(ctx context.Context, registryRef string, tokenID uint64) (httptransport.RoyaltyResponse, error) {
	royalty, err := h.Service.RoyaltyInfo(ctx, registryRef, tokenID)
	if err != nil {
		return httptransport.RoyaltyResponse{}, err
	}
	return httptransport.RoyaltyResponse{
		Creator:    royalty.Creator,
		Amount:     royalty.Amount,
		IsExcluded: royalty.IsExcluded,
	}, nil
}

// OwnerHandler godoc
// @Summary Read token owner
// @Tags token-ledger
// @Produce json
// @Param registry_ref path string true "Registry reference"
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.OwnerResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens/{token_id}/owner [get]
func (h Handler) OwnerHandler(ctx context.Context, registryRef string, tokenID uint64) (httptransport.OwnerResponse, error) {
	owner, err := h.Service.OwnerOf(ctx, registryRef, tokenID)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{TokenID: tokenID, Owner: owner}, nil
}

// TokenURIHandler godoc
// @Summary Read token metadata URI
// @Tags token-ledger
// @Produce json
// @Param registry_ref path string true "Registry reference"
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.TokenURIResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/registries/{registry_ref}/tokens/{token_id}/uri [get]
func (h Handler) TokenURIHandler(ctx context.Context, registryRef string, tokenID uint64) (httptransport.TokenURIResponse, error) {
	uri, err := h.Service.TokenURI(ctx, registryRef, tokenID)
	if err != nil {
		return httptransport.TokenURIResponse{}, err
	}
	return httptransport.TokenURIResponse{TokenID: tokenID, MetadataURI: uri}, nil
}

func mapToken(item entities.Item) httptransport.TokenDTO {
	return httptransport.TokenDTO{
		TokenID:         item.TokenID,
		RegistryRef:     item.RegistryRef,
		URI:             item.URI,
		Owner:           item.Owner,
		Creator:         item.Creator,
		RoyaltyRate:     item.RoyaltyRate,
		RoyaltyExcluded: item.RoyaltyExcluded,
		MintedAt:        item.MintedAt.UTC().Format(time.RFC3339),
	}
}
