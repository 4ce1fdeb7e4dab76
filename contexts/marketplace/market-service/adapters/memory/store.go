package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	application "curio/contexts/marketplace/market-service/application"
	"curio/contexts/marketplace/market-service/domain/entities"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"
)

// Store is an in-memory adapter implementing the marketplace ports for local
// runtime and tests. Each write runs inside one mutex critical section, which
// stands in for the whole-operation transaction settlement requires: the
// registry transfer is the only fallible settlement step and runs before any
// local mutation, so a failed transfer leaves the listing and balances
// untouched.
type Store struct {
	mu            sync.RWMutex
	listings      map[uint64]entities.Listing
	nextListingID uint64
	balances      map[string]int64
	outbox        map[string]ports.OutboxMessage
	outboxOrder   []string
	outboxSent    map[string]time.Time
	registries    ports.RegistryResolver
	logger        *slog.Logger
}

func NewStore(registries ports.RegistryResolver, logger *slog.Logger) *Store {
	return &Store{
		listings:    make(map[uint64]entities.Listing),
		balances:    make(map[string]int64),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		registries:  registries,
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) GetListing(_ context.Context, listingID uint64) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[listingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) ListListings(_ context.Context) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Listing, 0, len(s.listings))
	for id := uint64(1); id <= s.nextListingID; id++ {
		if listing, ok := s.listings[id]; ok {
			result = append(result, listing)
		}
	}
	return result, nil
}

func (s *Store) CreateListingWithOutbox(
	_ context.Context,
	listing entities.Listing,
	event ports.MarketEvent,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListingID++
	listing.ListingID = s.nextListingID
	s.listings[listing.ListingID] = listing

	event.ListingID = listing.ListingID
	s.appendOutboxLocked(event)

	s.logger.Debug("listing created in memory store",
		"event", "memory_create_listing",
		"module", "marketplace/market-service",
		"layer", "adapter",
		"listing_id", listing.ListingID,
	)
	return listing.ListingID, nil
}

func (s *Store) SettleSale(ctx context.Context, sale ports.SaleInstruction, event ports.MarketEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[sale.Listing.ListingID]
	if !ok {
		return domainerrors.ErrListingNotFound
	}
	if listing.Sold {
		return domainerrors.ErrAlreadySold
	}
	if s.balances[sale.Buyer] < sale.Payment {
		return domainerrors.ErrPaymentFailed
	}

	registry, err := s.registries.Resolve(ctx, listing.RegistryRef)
	if err != nil {
		return err
	}
	// Ownership moves first; it is the only step that can fail from here on,
	// so a rejection aborts settlement with no local state touched.
	if err := registry.Transfer(ctx, sale.Operator, listing.Seller, sale.Buyer, listing.TokenID); err != nil {
		return err
	}

	s.listings[listing.ListingID] = listing.MarkSold(event.OccurredAt)
	s.balances[sale.Buyer] -= sale.Payment
	s.balances[listing.Seller] += sale.Payment
	s.appendOutboxLocked(event)

	s.logger.Debug("sale settled in memory store",
		"event", "memory_settle_sale",
		"module", "marketplace/market-service",
		"layer", "adapter",
		"listing_id", listing.ListingID,
		"buyer", sale.Buyer,
		"payment", sale.Payment,
	)
	return nil
}

func (s *Store) AppendEvent(_ context.Context, event ports.MarketEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendOutboxLocked(event)
	return nil
}

func (s *Store) Balance(_ context.Context, account string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[account], nil
}

func (s *Store) Deposit(_ context.Context, account string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return 0, domainerrors.ErrInvalidDeposit
	}
	s.balances[account] += amount
	return s.balances[account], nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	pending := make([]ports.OutboxMessage, 0, limit)
	for _, outboxID := range s.outboxOrder {
		if _, sent := s.outboxSent[outboxID]; sent {
			continue
		}
		pending = append(pending, s.outbox[outboxID])
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutboxLocked(event ports.MarketEvent) {
	envelope := ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    "market-service",
		SchemaVersion:    1,
		PartitionKeyPath: "registry_ref",
		PartitionKey:     event.RegistryRef,
	}
	data, err := json.Marshal(map[string]string{
		"listing_id":   fmt.Sprintf("%d", event.ListingID),
		"registry_ref": event.RegistryRef,
		"token_id":     fmt.Sprintf("%d", event.TokenID),
		"seller":       event.Seller,
		"buyer":        event.Buyer,
		"price":        fmt.Sprintf("%d", event.Price),
		"payment":      fmt.Sprintf("%d", event.Payment),
		"currency":     event.Currency,
	})
	if err != nil {
		return
	}
	envelope.Data = data
	payload, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	s.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.RegistryRef,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)
}
