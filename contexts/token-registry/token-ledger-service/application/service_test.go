package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"curio/contexts/token-registry/token-ledger-service/adapters/memory"
	application "curio/contexts/token-registry/token-ledger-service/application"
	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	"curio/contexts/token-registry/token-ledger-service/ports"
)

func newLedgerFixture(t *testing.T) (application.Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore(nil)
	err := store.CreateRegistry(context.Background(), ports.Registry{
		Ref:             "reg-1",
		Name:            "cure",
		Symbol:          "cur",
		Admin:           "alice",
		BaseURI:         "https://ipfs.infura.io/ipfs/",
		OperatorAccount: "marketplace",
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create registry: %v", err)
	}

	service := application.Service{
		Items:       store,
		Clock:       store,
		IDGenerator: store,
	}
	return service, store
}

func TestMintAssignsSequentialTokenIDs(t *testing.T) {
	service, _ := newLedgerFixture(t)

	first, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 10)
	if err != nil {
		t.Fatalf("first mint failed: %v", err)
	}
	second, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://two", 10)
	if err != nil {
		t.Fatalf("second mint failed: %v", err)
	}

	if first.TokenID != 1 || second.TokenID != 2 {
		t.Fatalf("expected token ids 1 and 2, got %d and %d", first.TokenID, second.TokenID)
	}
}

func TestMintGrantsMarketplaceOperatorRights(t *testing.T) {
	service, store := newLedgerFixture(t)

	if _, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 10); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	approved, err := store.IsOperator(context.Background(), "reg-1", "alice", "marketplace")
	if err != nil {
		t.Fatalf("operator lookup failed: %v", err)
	}
	if !approved {
		t.Fatal("mint should grant the bound marketplace operator rights over the minter")
	}
}

func TestMintRejectsUnknownCaller(t *testing.T) {
	service, _ := newLedgerFixture(t)

	_, err := service.Mint(context.Background(), "reg-1", "mallory", "ipfs://one", 10)
	if !errors.Is(err, domainerrors.ErrNotAllowed) {
		t.Fatalf("expected caller gate, got %v", err)
	}
}

func TestMintAllowsApprovedOperator(t *testing.T) {
	service, store := newLedgerFixture(t)

	// An admin mint approves the marketplace as an operator of the admin,
	// which the mint gate also honours.
	if _, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 0); err != nil {
		t.Fatalf("admin mint failed: %v", err)
	}
	approved, err := store.IsOperator(context.Background(), "reg-1", "alice", "marketplace")
	if err != nil || !approved {
		t.Fatalf("marketplace should be approved: approved=%v err=%v", approved, err)
	}
	if _, err := service.Mint(context.Background(), "reg-1", "marketplace", "ipfs://two", 0); err != nil {
		t.Fatalf("operator mint should succeed: %v", err)
	}
}

func TestRoyaltyInfoReflectsMintRate(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 21)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	royalty, err := service.RoyaltyInfo(context.Background(), "reg-1", item.TokenID)
	if err != nil {
		t.Fatalf("royalty lookup failed: %v", err)
	}
	if royalty.Creator != "alice" || royalty.Amount != 21 || royalty.IsExcluded {
		t.Fatalf("unexpected royalty terms: %+v", royalty)
	}
}

func TestSetExcludedCreatorGate(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 21)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := service.SetExcluded(context.Background(), "reg-1", "bob", true, item.TokenID); !errors.Is(err, domainerrors.ErrNotTokenCreator) {
		t.Fatalf("expected creator gate, got %v", err)
	}

	updated, err := service.SetExcluded(context.Background(), "reg-1", "alice", true, item.TokenID)
	if err != nil {
		t.Fatalf("creator exclusion failed: %v", err)
	}
	if !updated.RoyaltyExcluded {
		t.Fatal("exclusion flag should be set")
	}

	royalty, err := service.RoyaltyInfo(context.Background(), "reg-1", item.TokenID)
	if err != nil {
		t.Fatalf("royalty lookup failed: %v", err)
	}
	if !royalty.IsExcluded {
		t.Fatal("royalty view should report exclusion")
	}
}

func TestSetExcludedRequiresNonZeroRate(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 0)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := service.SetExcluded(context.Background(), "reg-1", "alice", true, item.TokenID); !errors.Is(err, domainerrors.ErrRoyaltyNotSet) {
		t.Fatalf("expected royalty-not-set rejection, got %v", err)
	}
}

func TestBurnOwnerGate(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 21)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if err := service.Burn(context.Background(), "reg-1", "bob", item.TokenID); !errors.Is(err, domainerrors.ErrBurnNotAuthorised) {
		t.Fatalf("expected owner gate, got %v", err)
	}

	if err := service.Burn(context.Background(), "reg-1", "alice", item.TokenID); err != nil {
		t.Fatalf("owner burn failed: %v", err)
	}
	if _, err := service.OwnerOf(context.Background(), "reg-1", item.TokenID); !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("owner query after burn should fail, got %v", err)
	}
}

func TestBurnWriteRejectsStaleOwner(t *testing.T) {
	service, store := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 21)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	// A settlement lands between the burn caller's ownership read and the
	// burn write: the delete must fail because alice no longer holds the
	// token, leaving bob's token intact.
	if err := service.Transfer(context.Background(), "reg-1", "marketplace", "alice", "bob", item.TokenID); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	err = store.BurnItem(context.Background(), "reg-1", item.TokenID, "alice", ports.TokenEvent{
		EventID:     "stale-burn",
		EventType:   application.EventTypeBurned,
		RegistryRef: "reg-1",
		TokenID:     item.TokenID,
		Account:     "alice",
	})
	if !errors.Is(err, domainerrors.ErrBurnNotAuthorised) {
		t.Fatalf("stale-owner burn write should be rejected, got %v", err)
	}

	owner, err := service.OwnerOf(context.Background(), "reg-1", item.TokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != "bob" {
		t.Fatalf("token should survive with owner bob, got %q", owner)
	}
}

func TestTransferOwnerAndOperator(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 21)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if err := service.Transfer(context.Background(), "reg-1", "mallory", "alice", "bob", item.TokenID); !errors.Is(err, domainerrors.ErrTransferNotAuthorised) {
		t.Fatalf("expected transfer gate, got %v", err)
	}

	// The marketplace operator approved at mint can move the minter's token.
	if err := service.Transfer(context.Background(), "reg-1", "marketplace", "alice", "bob", item.TokenID); err != nil {
		t.Fatalf("operator transfer failed: %v", err)
	}

	owner, err := service.OwnerOf(context.Background(), "reg-1", item.TokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != "bob" {
		t.Fatalf("expected owner bob, got %q", owner)
	}

	// The new owner moves it themselves without any approval.
	if err := service.Transfer(context.Background(), "reg-1", "bob", "bob", "carol", item.TokenID); err != nil {
		t.Fatalf("owner transfer failed: %v", err)
	}
}

func TestTokenURIUsesRegistryBase(t *testing.T) {
	service, _ := newLedgerFixture(t)

	item, err := service.Mint(context.Background(), "reg-1", "alice", "ipfs://one", 0)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	uri, err := service.TokenURI(context.Background(), "reg-1", item.TokenID)
	if err != nil {
		t.Fatalf("token uri lookup failed: %v", err)
	}
	if uri != "https://ipfs.infura.io/ipfs/1" {
		t.Fatalf("unexpected token uri %q", uri)
	}
}
