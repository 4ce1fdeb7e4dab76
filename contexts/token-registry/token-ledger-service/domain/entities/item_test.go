package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
)

func TestNewItemAcceptsRateAtCap(t *testing.T) {
	item, err := NewItem("reg-1", "ipfs://meta", "alice", RoyaltyCap, time.Now())
	if err != nil {
		t.Fatalf("rate at cap should be accepted: %v", err)
	}
	if item.RoyaltyRate != RoyaltyCap {
		t.Fatalf("expected rate %d, got %d", RoyaltyCap, item.RoyaltyRate)
	}
	if item.Owner != "alice" || item.Creator != "alice" {
		t.Fatalf("minter should own and create the item, got owner=%q creator=%q", item.Owner, item.Creator)
	}
}

func TestNewItemRejectsRateAboveCap(t *testing.T) {
	_, err := NewItem("reg-1", "ipfs://meta", "alice", RoyaltyCap+1, time.Now())
	if !errors.Is(err, domainerrors.ErrRoyaltyTooHigh) {
		t.Fatalf("expected royalty cap rejection, got %v", err)
	}
}

func TestNewItemRejectsNegativeRate(t *testing.T) {
	_, err := NewItem("reg-1", "ipfs://meta", "alice", -1, time.Now())
	if !errors.Is(err, domainerrors.ErrInvalidMintRequest) {
		t.Fatalf("expected invalid mint request, got %v", err)
	}
}

func TestWithExclusionCreatorOnly(t *testing.T) {
	item, err := NewItem("reg-1", "ipfs://meta", "alice", 10, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := item.WithExclusion("bob", true, time.Now()); !errors.Is(err, domainerrors.ErrNotTokenCreator) {
		t.Fatalf("expected creator gate, got %v", err)
	}

	excluded, err := item.WithExclusion("alice", true, time.Now())
	if err != nil {
		t.Fatalf("creator exclusion should succeed: %v", err)
	}
	if !excluded.RoyaltyExcluded {
		t.Fatal("exclusion flag should be set")
	}

	restored, err := excluded.WithExclusion("alice", false, time.Now())
	if err != nil {
		t.Fatalf("creator should be able to clear exclusion: %v", err)
	}
	if restored.RoyaltyExcluded {
		t.Fatal("exclusion flag should be cleared")
	}
}

func TestWithExclusionRequiresRoyalty(t *testing.T) {
	item, err := NewItem("reg-1", "ipfs://meta", "alice", 0, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := item.WithExclusion("alice", true, time.Now()); !errors.Is(err, domainerrors.ErrRoyaltyNotSet) {
		t.Fatalf("expected royalty-not-set rejection, got %v", err)
	}
}

func TestMetadataURIAppendsTokenID(t *testing.T) {
	item, err := NewItem("reg-1", "ipfs://meta", "alice", 5, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	item.TokenID = 7

	got := item.MetadataURI("https://ipfs.infura.io/ipfs/")
	if got != "https://ipfs.infura.io/ipfs/7" {
		t.Fatalf("unexpected metadata uri %q", got)
	}
}
