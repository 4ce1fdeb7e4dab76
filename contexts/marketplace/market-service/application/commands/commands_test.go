package commands_test

import (
	"context"
	"errors"
	"testing"

	marketservice "curio/contexts/marketplace/market-service"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	markethttp "curio/contexts/marketplace/market-service/transport/http"
	registryfactory "curio/contexts/token-registry/registry-factory"
	tokenledger "curio/contexts/token-registry/token-ledger-service"
	ledgerhttp "curio/contexts/token-registry/token-ledger-service/transport/http"
)

const operatorAccount = "marketplace"

// newMarketFixture wires both contexts in memory, creates one collection
// owned by alice, and mints one of her tokens with a 21 percent royalty.
func newMarketFixture(t *testing.T) (tokenledger.Module, marketservice.Module, string, uint64) {
	t.Helper()

	ledger := tokenledger.NewInMemoryModule(nil)
	hub := registryfactory.Hub{
		Items:           ledger.Store,
		Service:         ledger.Service,
		IDGenerator:     ledger.Store,
		Clock:           ledger.Store,
		BaseURI:         "https://ipfs.infura.io/ipfs/",
		OperatorAccount: operatorAccount,
	}
	market := marketservice.NewInMemoryModule(hub, hub, operatorAccount, nil)

	collection, err := market.Handler.CreateCollectionHandler(context.Background(), "alice", markethttp.CreateCollectionRequest{
		Name:   "cure",
		Symbol: "cur",
	})
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}

	minted, err := ledger.Handler.MintHandler(context.Background(), collection.RegistryRef, "alice", ledgerhttp.MintRequest{
		URI:         "ipfs://item-one",
		RoyaltyRate: 21,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return ledger, market, collection.RegistryRef, minted.Token.TokenID
}

func TestCreateListingRejectsNonOwner(t *testing.T) {
	_, market, ref, tokenID := newMarketFixture(t)

	_, err := market.Handler.CreateListingHandler(context.Background(), "bob", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if !errors.Is(err, domainerrors.ErrNotTokenOwner) {
		t.Fatalf("expected ownership gate, got %v", err)
	}
}

func TestCreateListingAssignsSequentialIDs(t *testing.T) {
	ledger, market, ref, tokenID := newMarketFixture(t)

	second, err := ledger.Handler.MintHandler(context.Background(), ref, "alice", ledgerhttp.MintRequest{
		URI: "ipfs://item-two",
	})
	if err != nil {
		t.Fatalf("second mint: %v", err)
	}

	first, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("first listing: %v", err)
	}
	next, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     second.Token.TokenID,
		Price:       2000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("second listing: %v", err)
	}

	if first.Listing.ListingID != 1 || next.Listing.ListingID != 2 {
		t.Fatalf("expected listing ids 1 and 2, got %d and %d", first.Listing.ListingID, next.Listing.ListingID)
	}
}

func TestBuyItemRejectsShortPayment(t *testing.T) {
	_, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}

	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 1000}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	_, err = market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 999})
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected short-payment rejection, got %v", err)
	}

	got, err := market.Handler.GetListingHandler(context.Background(), listing.Listing.ListingID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Listing.Sold {
		t.Fatal("rejected purchase must leave the listing open")
	}
}

func TestBuyItemSettlesAtomically(t *testing.T) {
	ledger, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 1500}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	result, err := market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1000})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !result.Listing.Sold {
		t.Fatal("settled listing should be sold")
	}

	owner, err := ledger.Handler.OwnerHandler(context.Background(), ref, tokenID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner.Owner != "bob" {
		t.Fatalf("ownership should move to buyer, got %q", owner.Owner)
	}

	seller, err := market.Handler.BalanceHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("seller balance: %v", err)
	}
	buyer, err := market.Handler.BalanceHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("buyer balance: %v", err)
	}
	if seller.Balance != 1000 || buyer.Balance != 500 {
		t.Fatalf("expected balances 1000/500, got %d/%d", seller.Balance, buyer.Balance)
	}
}

func TestBuyItemRejectsSoldListing(t *testing.T) {
	_, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 2000}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1000}); err != nil {
		t.Fatalf("first buy: %v", err)
	}

	_, err = market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1000})
	if !errors.Is(err, domainerrors.ErrAlreadySold) {
		t.Fatalf("expected sold-listing rejection, got %v", err)
	}
}

func TestBuyItemWalletShortLeavesStateUntouched(t *testing.T) {
	ledger, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	// Payment covers the price, but the funded balance does not.
	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 400}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	_, err = market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1000})
	if !errors.Is(err, domainerrors.ErrPaymentFailed) {
		t.Fatalf("expected payment failure, got %v", err)
	}

	got, err := market.Handler.GetListingHandler(context.Background(), listing.Listing.ListingID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Listing.Sold {
		t.Fatal("failed settlement must leave the listing open")
	}
	owner, err := ledger.Handler.OwnerHandler(context.Background(), ref, tokenID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner.Owner != "alice" {
		t.Fatalf("failed settlement must leave ownership intact, got %q", owner.Owner)
	}
	buyer, err := market.Handler.BalanceHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("buyer balance: %v", err)
	}
	if buyer.Balance != 400 {
		t.Fatalf("failed settlement must leave the buyer balance intact, got %d", buyer.Balance)
	}
}

func TestBuyItemForwardsFullOverpayment(t *testing.T) {
	_, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 1200}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if _, err := market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1200}); err != nil {
		t.Fatalf("buy: %v", err)
	}

	// The whole attached payment goes to the seller, excess included.
	seller, err := market.Handler.BalanceHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("seller balance: %v", err)
	}
	buyer, err := market.Handler.BalanceHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("buyer balance: %v", err)
	}
	if seller.Balance != 1200 || buyer.Balance != 0 {
		t.Fatalf("expected balances 1200/0, got %d/%d", seller.Balance, buyer.Balance)
	}
}

func TestListListingsIncludesSold(t *testing.T) {
	_, market, ref, tokenID := newMarketFixture(t)

	listing, err := market.Handler.CreateListingHandler(context.Background(), "alice", markethttp.CreateListingRequest{
		RegistryRef: ref,
		TokenID:     tokenID,
		Price:       1000,
		Currency:    "eth",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if _, err := market.Handler.DepositHandler(context.Background(), "bob", markethttp.DepositRequest{Amount: 1000}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := market.Handler.BuyItemHandler(context.Background(), "bob", listing.Listing.ListingID, markethttp.BuyItemRequest{Payment: 1000}); err != nil {
		t.Fatalf("buy: %v", err)
	}

	all, err := market.Handler.ListListingsHandler(context.Background())
	if err != nil {
		t.Fatalf("list listings: %v", err)
	}
	if len(all.Items) != 1 {
		t.Fatalf("expected one audit record, got %d", len(all.Items))
	}
	if !all.Items[0].Sold {
		t.Fatal("sold listing should remain visible in the audit list")
	}
}
