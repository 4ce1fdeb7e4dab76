package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	marketservice "curio/contexts/marketplace/market-service"
	marketerrors "curio/contexts/marketplace/market-service/domain/errors"
	markethttp "curio/contexts/marketplace/market-service/transport/http"
	tokenledger "curio/contexts/token-registry/token-ledger-service"
	ledgererrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	ledgerhttp "curio/contexts/token-registry/token-ledger-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "curio/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	ledger tokenledger.Module
	market marketservice.Module
}

func New(
	ledger tokenledger.Module,
	market marketservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		ledger: ledger,
		market: market,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for in-process testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/registries/{registry_ref}/tokens", s.handleMintToken)
	s.mux.HandleFunc("DELETE /v1/registries/{registry_ref}/tokens/{token_id}", s.handleBurnToken)
	s.mux.HandleFunc("POST /v1/registries/{registry_ref}/tokens/{token_id}/exclusion", s.handleSetExcluded)
	s.mux.HandleFunc("GET /v1/registries/{registry_ref}/tokens/{token_id}/royalty", s.handleRoyaltyInfo)
	s.mux.HandleFunc("GET /v1/registries/{registry_ref}/tokens/{token_id}/owner", s.handleOwnerOf)
	s.mux.HandleFunc("GET /v1/registries/{registry_ref}/tokens/{token_id}/uri", s.handleTokenURI)

	s.mux.HandleFunc("POST /v1/marketplace/collections", s.handleCreateCollection)
	s.mux.HandleFunc("POST /v1/marketplace/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /v1/marketplace/listings", s.handleListListings)
	s.mux.HandleFunc("GET /v1/marketplace/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("POST /v1/marketplace/listings/{listing_id}/buy", s.handleBuyItem)

	s.mux.HandleFunc("POST /v1/wallet/deposits", s.handleDeposit)
	s.mux.HandleFunc("GET /v1/wallet/{account}", s.handleBalance)
}

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	var req ledgerhttp.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.MintHandler(r.Context(), r.PathValue("registry_ref"), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBurnToken(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	tokenID, ok := parseTokenID(w, r)
	if !ok {
		return
	}

	if err := s.ledger.Handler.BurnHandler(r.Context(), r.PathValue("registry_ref"), caller, tokenID); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetExcluded(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	tokenID, ok := parseTokenID(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.SetExcludedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.SetExcludedHandler(r.Context(), r.PathValue("registry_ref"), caller, tokenID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoyaltyInfo(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseTokenID(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.RoyaltyHandler(r.Context(), r.PathValue("registry_ref"), tokenID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwnerOf(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseTokenID(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.OwnerHandler(r.Context(), r.PathValue("registry_ref"), tokenID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseTokenID(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.TokenURIHandler(r.Context(), r.PathValue("registry_ref"), tokenID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	var req markethttp.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.market.Handler.CreateCollectionHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	var req markethttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.market.Handler.CreateListingHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.market.Handler.ListListingsHandler(r.Context())
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	resp, err := s.market.Handler.GetListingHandler(r.Context(), listingID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req markethttp.BuyItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.market.Handler.BuyItemHandler(r.Context(), caller, listingID, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Account-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return
	}

	var req markethttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.market.Handler.DepositHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.market.Handler.BalanceHandler(r.Context(), r.PathValue("account"))
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrRegistryNotFound):
		writeLedgerError(w, http.StatusNotFound, "registry_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrTokenNotFound):
		writeLedgerError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrRoyaltyNotSet):
		writeLedgerError(w, http.StatusNotFound, "royalty_not_set", err.Error())
	case errors.Is(err, ledgererrors.ErrNotAllowed):
		writeLedgerError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, ledgererrors.ErrNotTokenCreator):
		writeLedgerError(w, http.StatusForbidden, "not_token_creator", err.Error())
	case errors.Is(err, ledgererrors.ErrBurnNotAuthorised):
		writeLedgerError(w, http.StatusForbidden, "burn_not_authorised", err.Error())
	case errors.Is(err, ledgererrors.ErrTransferNotAuthorised):
		writeLedgerError(w, http.StatusForbidden, "transfer_not_authorised", err.Error())
	case errors.Is(err, ledgererrors.ErrRoyaltyTooHigh):
		writeLedgerError(w, http.StatusBadRequest, "royalty_too_high", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidMintRequest):
		writeLedgerError(w, http.StatusBadRequest, "invalid_mint_request", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMarketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketerrors.ErrListingNotFound):
		writeMarketError(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrRegistryNotFound):
		writeMarketError(w, http.StatusNotFound, "registry_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrTokenNotFound):
		writeMarketError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrNotTokenOwner):
		writeMarketError(w, http.StatusForbidden, "not_token_owner", err.Error())
	case errors.Is(err, marketerrors.ErrAlreadySold):
		writeMarketError(w, http.StatusConflict, "already_sold", err.Error())
	case errors.Is(err, marketerrors.ErrInsufficientFunds):
		writeMarketError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, marketerrors.ErrPaymentFailed):
		writeMarketError(w, http.StatusPaymentRequired, "payment_failed", err.Error())
	case errors.Is(err, marketerrors.ErrTransferRejected):
		writeMarketError(w, http.StatusConflict, "transfer_rejected", err.Error())
	case errors.Is(err, marketerrors.ErrInvalidPrice),
		errors.Is(err, marketerrors.ErrInvalidListingRequest),
		errors.Is(err, marketerrors.ErrInvalidCollectionRequest),
		errors.Is(err, marketerrors.ErrInvalidDeposit):
		writeMarketError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeMarketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, markethttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseTokenID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	tokenID, err := strconv.ParseUint(r.PathValue("token_id"), 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_token_id", "token_id must be an unsigned integer")
		return 0, false
	}
	return tokenID, true
}

func parseListingID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	listingID, err := strconv.ParseUint(r.PathValue("listing_id"), 10, 64)
	if err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_listing_id", "listing_id must be an unsigned integer")
		return 0, false
	}
	return listingID, true
}
