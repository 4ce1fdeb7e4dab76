package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	markethttp "curio/contexts/marketplace/market-service/transport/http"
	ledgerhttp "curio/contexts/token-registry/token-ledger-service/transport/http"
	"curio/internal/app/bootstrap"
	"curio/internal/platform/httpserver"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ledger, market := bootstrap.NewMemoryModules("https://ipfs.infura.io/ipfs/", "marketplace", nil)
	return httpserver.New(ledger, market, nil, ":0").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, account string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if account != "" {
		req.Header.Set("X-Account-Id", account)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if out != nil && recorder.Code < 300 {
		if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return recorder
}

func TestMintListBuyFlow(t *testing.T) {
	handler := newTestHandler(t)

	var collection markethttp.CreateCollectionResponse
	rec := doJSON(t, handler, http.MethodPost, "/v1/marketplace/collections", "alice", markethttp.CreateCollectionRequest{
		Name:   "cure",
		Symbol: "cur",
	}, &collection)
	if rec.Code != http.StatusOK {
		t.Fatalf("create collection status %d: %s", rec.Code, rec.Body.String())
	}
	if collection.RegistryRef == "" {
		t.Fatal("collection should return a registry ref")
	}
	ref := collection.RegistryRef

	var minted ledgerhttp.MintResponse
	rec = doJSON(t, handler, http.MethodPost, "/v1/registries/"+ref+"/tokens", "alice", ledgerhttp.MintRequest{
		URI:         "ipfs://item-one",
		RoyaltyRate: 21,
	}, &minted)
	if rec.Code != http.StatusOK {
		t.Fatalf("mint status %d: %s", rec.Code, rec.Body.String())
	}
	if minted.Token.TokenID != 1 {
		t.Fatalf("first token id should be 1, got %d", minted.Token.TokenID)
	}
	if minted.MetadataURI != "https://ipfs.infura.io/ipfs/1" {
		t.Fatalf("unexpected metadata uri %q", minted.MetadataURI)
	}
	tokenPath := fmt.Sprintf("/v1/registries/%s/tokens/%d", ref, minted.Token.TokenID)

	var royalty ledgerhttp.RoyaltyResponse
	rec = doJSON(t, handler, http.MethodGet, tokenPath+"/royalty", "", nil, &royalty)
	if rec.Code != http.StatusOK {
		t.Fatalf("royalty status %d: %s", rec.Code, rec.Body.String())
	}
	if royalty.Creator != "alice" || royalty.Amount != 21 || royalty.IsExcluded {
		t.Fatalf("unexpected royalty terms: %+v", royalty)
	}

	var listing markethttp.CreateListingResponse
	rec = doJSON(t, handler, http.MethodPost, "/v1/marketplace/listings", "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     minted.Token.TokenID,
		Price:       1000,
		Currency:    "eth",
	}, &listing)
	if rec.Code != http.StatusOK {
		t.Fatalf("create listing status %d: %s", rec.Code, rec.Body.String())
	}
	if listing.Listing.ListingID != 1 {
		t.Fatalf("first listing id should be 1, got %d", listing.Listing.ListingID)
	}

	rec = doJSON(t, handler, http.MethodPost, "/v1/wallet/deposits", "bob", markethttp.DepositRequest{Amount: 1000}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit status %d: %s", rec.Code, rec.Body.String())
	}

	buyPath := fmt.Sprintf("/v1/marketplace/listings/%d/buy", listing.Listing.ListingID)
	var sale markethttp.BuyItemResponse
	rec = doJSON(t, handler, http.MethodPost, buyPath, "bob", markethttp.BuyItemRequest{Payment: 1000}, &sale)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy status %d: %s", rec.Code, rec.Body.String())
	}
	if !sale.Listing.Sold || sale.Buyer != "bob" {
		t.Fatalf("unexpected sale result: %+v", sale)
	}

	var owner ledgerhttp.OwnerResponse
	rec = doJSON(t, handler, http.MethodGet, tokenPath+"/owner", "", nil, &owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner status %d: %s", rec.Code, rec.Body.String())
	}
	if owner.Owner != "bob" {
		t.Fatalf("ownership should move to bob, got %q", owner.Owner)
	}

	var sellerBalance markethttp.BalanceResponse
	rec = doJSON(t, handler, http.MethodGet, "/v1/wallet/alice", "", nil, &sellerBalance)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance status %d: %s", rec.Code, rec.Body.String())
	}
	if sellerBalance.Balance != 1000 {
		t.Fatalf("seller should hold the full payment, got %d", sellerBalance.Balance)
	}

	rec = doJSON(t, handler, http.MethodPost, buyPath, "bob", markethttp.BuyItemRequest{Payment: 1000}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second buy should conflict, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMintRequiresAccountHeader(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/v1/registries/reg/tokens", "", ledgerhttp.MintRequest{URI: "ipfs://x"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-Account-Id, got %d", rec.Code)
	}
}

func TestMintRejectsRoyaltyAboveCap(t *testing.T) {
	handler := newTestHandler(t)

	var collection markethttp.CreateCollectionResponse
	doJSON(t, handler, http.MethodPost, "/v1/marketplace/collections", "alice", markethttp.CreateCollectionRequest{Name: "cure", Symbol: "cur"}, &collection)

	rec := doJSON(t, handler, http.MethodPost, "/v1/registries/"+collection.RegistryRef+"/tokens", "alice", ledgerhttp.MintRequest{
		URI:         "ipfs://x",
		RoyaltyRate: 51,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for royalty above cap, got %d: %s", rec.Code, rec.Body.String())
	}

	var failure ledgerhttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if failure.Message != "royalty above threshold" {
		t.Fatalf("unexpected rejection message %q", failure.Message)
	}
}

func TestBurnEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	var collection markethttp.CreateCollectionResponse
	doJSON(t, handler, http.MethodPost, "/v1/marketplace/collections", "alice", markethttp.CreateCollectionRequest{Name: "cure", Symbol: "cur"}, &collection)

	var minted ledgerhttp.MintResponse
	doJSON(t, handler, http.MethodPost, "/v1/registries/"+collection.RegistryRef+"/tokens", "alice", ledgerhttp.MintRequest{URI: "ipfs://x"}, &minted)

	tokenPath := fmt.Sprintf("/v1/registries/%s/tokens/%d", collection.RegistryRef, minted.Token.TokenID)

	rec := doJSON(t, handler, http.MethodDelete, tokenPath, "bob", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner burn should be forbidden, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, tokenPath, "alice", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner burn should succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, tokenPath+"/owner", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("owner query after burn should 404, got %d", rec.Code)
	}
}

func TestExclusionEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	var collection markethttp.CreateCollectionResponse
	doJSON(t, handler, http.MethodPost, "/v1/marketplace/collections", "alice", markethttp.CreateCollectionRequest{Name: "cure", Symbol: "cur"}, &collection)

	var minted ledgerhttp.MintResponse
	doJSON(t, handler, http.MethodPost, "/v1/registries/"+collection.RegistryRef+"/tokens", "alice", ledgerhttp.MintRequest{URI: "ipfs://x", RoyaltyRate: 10}, &minted)

	path := fmt.Sprintf("/v1/registries/%s/tokens/%d/exclusion", collection.RegistryRef, minted.Token.TokenID)

	rec := doJSON(t, handler, http.MethodPost, path, "bob", ledgerhttp.SetExcludedRequest{Excluded: true}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator exclusion should be forbidden, got %d", rec.Code)
	}

	var updated ledgerhttp.SetExcludedResponse
	rec = doJSON(t, handler, http.MethodPost, path, "alice", ledgerhttp.SetExcludedRequest{Excluded: true}, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("creator exclusion should succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if !updated.Token.RoyaltyExcluded {
		t.Fatal("exclusion flag should be set")
	}
}
