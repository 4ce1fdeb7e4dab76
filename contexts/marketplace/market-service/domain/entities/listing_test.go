package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
)

func TestNewListingRejectsNonPositivePrice(t *testing.T) {
	if _, err := NewListing("reg-1", 1, 0, "eth", "alice", time.Now()); !errors.Is(err, domainerrors.ErrInvalidPrice) {
		t.Fatalf("expected price rejection for zero, got %v", err)
	}
	if _, err := NewListing("reg-1", 1, -5, "eth", "alice", time.Now()); !errors.Is(err, domainerrors.ErrInvalidPrice) {
		t.Fatalf("expected price rejection for negative, got %v", err)
	}
}

func TestNewListingKeepsCurrencyOpaque(t *testing.T) {
	listing, err := NewListing("reg-1", 1, 1000, "shells", "alice", time.Now())
	if err != nil {
		t.Fatalf("listing should accept any currency label: %v", err)
	}
	if listing.Currency != "shells" {
		t.Fatalf("unexpected currency %q", listing.Currency)
	}
	if !listing.Open() {
		t.Fatal("new listing should be open")
	}
}

func TestMarkSoldIsOneWay(t *testing.T) {
	listing, err := NewListing("reg-1", 1, 1000, "eth", "alice", time.Now())
	if err != nil {
		t.Fatalf("listing creation failed: %v", err)
	}
	sold := listing.MarkSold(time.Now())
	if !sold.Sold || sold.Open() {
		t.Fatal("sold listing should be closed")
	}
}
