package ports

import (
	"context"
	"time"

	"curio/contexts/marketplace/market-service/domain/entities"
	"curio/internal/shared/events"
)

// RoyaltyInfo is the payout view a registry exposes for one token.
type RoyaltyInfo struct {
	Creator    string
	Amount     int
	IsExcluded bool
}

// TokenRegistry is the contract a ledger must expose to be listed against.
// Any implementation providing these four operations can back a listing; the
// marketplace is registry-agnostic.
type TokenRegistry interface {
	Ref() string
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
	RoyaltyInfo(ctx context.Context, tokenID uint64) (RoyaltyInfo, error)
	// Transfer moves ownership on behalf of from. The operator must hold
	// blanket operator rights over from's holdings.
	Transfer(ctx context.Context, operator string, from string, to string, tokenID uint64) error
}

// RegistryResolver resolves a listing's registry reference to a live registry.
type RegistryResolver interface {
	Resolve(ctx context.Context, ref string) (TokenRegistry, error)
}

type CreateRegistryInput struct {
	Creator  string
	Name     string
	Symbol   string
	ImageURI string
}

// RegistryFactory creates a new token registry bound to the marketplace
// operator account.
type RegistryFactory interface {
	CreateRegistry(ctx context.Context, input CreateRegistryInput) (TokenRegistry, error)
}

// MarketEvent is the outbound payload appended to the market outbox. The
// repository fills ListingID for listing-created events once the counter
// assigns it.
type MarketEvent struct {
	EventID     string
	EventType   string
	ListingID   uint64
	RegistryRef string
	TokenID     uint64
	Seller      string
	Buyer       string
	Price       int64
	Payment     int64
	Currency    string
	OccurredAt  time.Time
}

// SaleInstruction carries everything the settlement write boundary needs.
// Operator is the marketplace account performing the ownership transfer.
type SaleInstruction struct {
	Listing  entities.Listing
	Buyer    string
	Payment  int64
	Operator string
}

// ListingRepository owns listing rows, the listing counter, and the sale
// settlement write boundary.
type ListingRepository interface {
	GetListing(ctx context.Context, listingID uint64) (entities.Listing, error)
	ListListings(ctx context.Context) ([]entities.Listing, error)
	// CreateListingWithOutbox allocates the next sequential listing id
	// (starting at 1) and persists the listing together with its created
	// event. Returns the assigned id.
	CreateListingWithOutbox(ctx context.Context, listing entities.Listing, event MarketEvent) (uint64, error)
	// SettleSale applies the whole settlement atomically: ownership transfer
	// through the registry, the sold flip, the buyer debit, the seller credit
	// of the full payment, and the sale outbox row. Any failure leaves every
	// piece unchanged.
	SettleSale(ctx context.Context, sale SaleInstruction, event MarketEvent) error
	// AppendEvent records a standalone market event (collection created).
	AppendEvent(ctx context.Context, event MarketEvent) error
}

// WalletRepository is the value-transfer boundary: per-account balances in the
// smallest unit of the settlement currency.
type WalletRepository interface {
	Balance(ctx context.Context, account string) (int64, error)
	Deposit(ctx context.Context, account string, amount int64) (int64, error)
}

// Clock allows deterministic timestamps in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator creates event identifiers.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a pending market event ready to relay.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope is the canonical cross-module envelope.
type EventEnvelope = events.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
