package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	application "curio/contexts/token-registry/token-ledger-service/application"
	"curio/contexts/token-registry/token-ledger-service/domain/entities"
	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	"curio/contexts/token-registry/token-ledger-service/ports"
)

// Store is an in-memory adapter implementing the token ledger ports for local
// runtime and tests. A single mutex critical section per write approximates
// the whole-operation transaction the ledger requires.
type Store struct {
	mu          sync.RWMutex
	registries  map[string]ports.Registry
	items       map[string]map[uint64]entities.Item
	counters    map[string]uint64
	operators   map[string]map[string]map[string]bool
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		registries:  make(map[string]ports.Registry),
		items:       make(map[string]map[uint64]entities.Item),
		counters:    make(map[string]uint64),
		operators:   make(map[string]map[string]map[string]bool),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) CreateRegistry(_ context.Context, registry ports.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registries[registry.Ref]; ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.registries[registry.Ref] = registry
	s.items[registry.Ref] = make(map[uint64]entities.Item)
	s.operators[registry.Ref] = make(map[string]map[string]bool)
	return nil
}

func (s *Store) GetRegistry(_ context.Context, ref string) (ports.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registry, ok := s.registries[ref]
	if !ok {
		return ports.Registry{}, domainerrors.ErrRegistryNotFound
	}
	return registry, nil
}

func (s *Store) GetItem(_ context.Context, ref string, tokenID uint64) (entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getItemLocked(ref, tokenID)
}

func (s *Store) getItemLocked(ref string, tokenID uint64) (entities.Item, error) {
	table, ok := s.items[ref]
	if !ok {
		return entities.Item{}, domainerrors.ErrRegistryNotFound
	}
	item, ok := table[tokenID]
	if !ok {
		return entities.Item{}, domainerrors.ErrTokenNotFound
	}
	return item, nil
}

func (s *Store) ListItemsByOwner(_ context.Context, ref string, owner string) ([]entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.items[ref]
	if !ok {
		return nil, domainerrors.ErrRegistryNotFound
	}
	result := make([]entities.Item, 0)
	for _, item := range table {
		if item.Owner == owner {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TokenID < result[j].TokenID
	})
	return result, nil
}

func (s *Store) IsOperator(_ context.Context, ref string, account string, operator string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts, ok := s.operators[ref]
	if !ok {
		return false, domainerrors.ErrRegistryNotFound
	}
	return accounts[account][operator], nil
}

func (s *Store) MintItem(
	_ context.Context,
	item entities.Item,
	operator string,
	mintEvent ports.TokenEvent,
	approvalEvent ports.TokenEvent,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.items[item.RegistryRef]
	if !ok {
		return 0, domainerrors.ErrRegistryNotFound
	}

	s.counters[item.RegistryRef]++
	tokenID := s.counters[item.RegistryRef]
	item.TokenID = tokenID
	table[tokenID] = item

	accounts := s.operators[item.RegistryRef]
	if accounts[item.Owner] == nil {
		accounts[item.Owner] = make(map[string]bool)
	}
	accounts[item.Owner][operator] = true

	mintEvent.TokenID = tokenID
	approvalEvent.TokenID = tokenID
	s.appendOutboxLocked(mintEvent)
	s.appendOutboxLocked(approvalEvent)

	s.logger.Debug("item minted in memory store",
		"event", "memory_mint_item",
		"module", "token-registry/token-ledger-service",
		"layer", "adapter",
		"registry_ref", item.RegistryRef,
		"token_id", tokenID,
	)
	return tokenID, nil
}

func (s *Store) BurnItem(_ context.Context, ref string, tokenID uint64, owner string, event ports.TokenEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(ref, tokenID)
	if err != nil {
		return err
	}
	if item.Owner != owner {
		return domainerrors.ErrBurnNotAuthorised
	}
	delete(s.items[ref], tokenID)
	s.appendOutboxLocked(event)
	return nil
}

func (s *Store) UpdateExclusion(_ context.Context, item entities.Item, event *ports.TokenEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getItemLocked(item.RegistryRef, item.TokenID); err != nil {
		return err
	}
	s.items[item.RegistryRef][item.TokenID] = item
	if event != nil {
		s.appendOutboxLocked(*event)
	}
	return nil
}

func (s *Store) TransferItem(
	_ context.Context,
	ref string,
	tokenID uint64,
	from string,
	to string,
	event ports.TokenEvent,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(ref, tokenID)
	if err != nil {
		return err
	}
	if item.Owner != from {
		return domainerrors.ErrTransferNotAuthorised
	}
	s.items[ref][tokenID] = item.WithOwner(to, event.OccurredAt)
	s.appendOutboxLocked(event)
	return nil
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

func (s *Store) appendOutboxLocked(event ports.TokenEvent) {
	envelope := ports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    "token-ledger-service",
		SchemaVersion:    1,
		PartitionKeyPath: "registry_ref",
		PartitionKey:     event.RegistryRef,
	}
	data, err := json.Marshal(map[string]string{
		"registry_ref": event.RegistryRef,
		"token_id":     fmt.Sprintf("%d", event.TokenID),
		"account":      event.Account,
		"operator":     event.Operator,
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
