package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "curio/contexts/marketplace/market-service/application"
	"curio/contexts/marketplace/market-service/application/commands"
	"curio/contexts/marketplace/market-service/application/queries"
	"curio/contexts/marketplace/market-service/domain/entities"
	httptransport "curio/contexts/marketplace/market-service/transport/http"
)

type Handler struct {
	CreateCollection commands.CreateCollectionUseCase
	CreateListing    commands.CreateListingUseCase
	BuyItem          commands.BuyItemUseCase
	DepositFunds     commands.DepositFundsUseCase
	GetListing       queries.GetListingUseCase
	ListListings     queries.ListListingsUseCase
	GetBalance       queries.GetBalanceUseCase
	Logger           *slog.Logger
}

// CreateCollectionHandler godoc
// @Summary Create a collection
// @Description Creates a new token registry bound to the marketplace and returns its reference.
// @Tags marketplace
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param request body httptransport.CreateCollectionRequest true "Collection payload"
// @Success 200 {object} httptransport.CreateCollectionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/collections [post]
func (h Handler) CreateCollectionHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateCollectionRequest,
) (httptransport.CreateCollectionResponse, error) {
	result, err := h.CreateCollection.Execute(ctx, commands.CreateCollectionCommand{
		Creator:  caller,
		Name:     req.Name,
		Symbol:   req.Symbol,
		ImageURI: req.ImageURI,
	})
	if err != nil {
		return httptransport.CreateCollectionResponse{}, err
	}
	return httptransport.CreateCollectionResponse{RegistryRef: result.RegistryRef}, nil
}

// CreateListingHandler godoc
// @Summary List a token for sale
// @Description Creates a marketplace listing for a token the caller currently owns. Ownership stays with the seller until sale.
// @Tags marketplace
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param request body httptransport.CreateListingRequest true "Listing payload"
// @Success 200 {object} httptransport.CreateListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/listings [post]
func (h Handler) CreateListingHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateListingRequest,
) (httptransport.CreateListingResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create listing request received",
		"event", "http_create_listing_received",
		"module", "marketplace/market-service",
		"layer", "transport",
		"registry_ref", req.RegistryRef,
		"token_id", req.TokenID,
	)

	result, err := h.CreateListing.Execute(ctx, commands.CreateListingCommand{
		Seller:      caller,
		RegistryRef: req.RegistryRef,
		TokenID:     req.TokenID,
		Price:       req.Price,
		Currency:    req.Currency,
	})
	if err != nil {
		return httptransport.CreateListingResponse{}, err
	}
	return httptransport.CreateListingResponse{Listing: mapListing(result.Listing)}, nil
}

// BuyItemHandler godoc
// @Summary Buy a listed token
// @Description Settles a listing atomically: ownership moves to the buyer and the full attached payment moves to the seller.
// @Tags marketplace
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param listing_id path int true "Listing id"
// @Param request body httptransport.BuyItemRequest true "Payment payload"
// @Success 200 {object} httptransport.BuyItemResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/listings/{listing_id}/buy [post]
func (h Handler) BuyItemHandler(
	ctx context.Context,
	caller string,
	listingID uint64,
	req httptransport.BuyItemRequest,
) (httptransport.BuyItemResponse, error) {
	result, err := h.BuyItem.Execute(ctx, commands.BuyItemCommand{
		ListingID: listingID,
		Buyer:     caller,
		Payment:   req.Payment,
	})
	if err != nil {
		return httptransport.BuyItemResponse{}, err
	}
	return httptransport.BuyItemResponse{
		Listing: mapListing(result.Listing),
		Buyer:   caller,
	}, nil
}

// GetListingHandler godoc
// @Summary Get a listing
// @Tags marketplace
// @Produce json
// @Param listing_id path int true "Listing id"
// @Success 200 {object} httptransport.GetListingResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/listings/{listing_id} [get]
func (h Handler) GetListingHandler(ctx context.Context, listingID uint64) (httptransport.GetListingResponse, error) {
	result, err := h.GetListing.Execute(ctx, queries.GetListingQuery{ListingID: listingID})
	if err != nil {
		return httptransport.GetListingResponse{}, err
	}
	return httptransport.GetListingResponse{Listing: mapListing(result.Listing)}, nil
}

// ListListingsHandler godoc
// @Summary List all listings
// @Description Returns every listing ever created, sold ones included; listings are audit records.
// @Tags marketplace
// @Produce json
// @Success 200 {object} httptransport.ListListingsResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/marketplace/listings [get]
func (h Handler) ListListingsHandler(ctx context.Context) (httptransport.ListListingsResponse, error) {
	result, err := h.ListListings.Execute(ctx)
	if err != nil {
		return httptransport.ListListingsResponse{}, err
	}
	items := make([]httptransport.ListingDTO, 0, len(result.Listings))
	for _, listing := range result.Listings {
		items = append(items, mapListing(listing))
	}
	return httptransport.ListListingsResponse{Items: items}, nil
}

// DepositHandler godoc
// @Summary Fund the caller's wallet
// @Tags marketplace
// @Accept json
// @Produce json
// @Param X-Account-Id header string true "Caller account"
// @Param request body httptransport.DepositRequest true "Deposit payload"
// @Success 200 {object} httptransport.BalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/wallet/deposits [post]
func (h Handler) DepositHandler(
	ctx context.Context,
	caller string,
	req httptransport.DepositRequest,
) (httptransport.BalanceResponse, error) {
	result, err := h.DepositFunds.Execute(ctx, commands.DepositFundsCommand{
		Account: caller,
		Amount:  req.Amount,
	})
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{Account: result.Account, Balance: result.Balance}, nil
}

// BalanceHandler godoc
// @Summary Read an account balance
// @Tags marketplace
// @Produce json
// @Param account path string true "Account"
// @Success 200 {object} httptransport.BalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/wallet/{account} [get]
func (h Handler) BalanceHandler(ctx context.Context, account string) (httptransport.BalanceResponse, error) {
	result, err := h.GetBalance.Execute(ctx, queries.GetBalanceQuery{Account: account})
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{Account: result.Account, Balance: result.Balance}, nil
}

func mapListing(listing entities.Listing) httptransport.ListingDTO {
	return httptransport.ListingDTO{
		ListingID:   listing.ListingID,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Price:       listing.Price,
		Currency:    listing.Currency,
		Seller:      listing.Seller,
		Sold:        listing.Sold,
		CreatedAt:   listing.CreatedAt.UTC().Format(time.RFC3339),
	}
}
