package ports

import (
	"context"
	"time"

	"curio/contexts/token-registry/token-ledger-service/domain/entities"
	"curio/internal/shared/events"
)

// Registry is the persisted identity of one token ledger instance. Many
// registries share one repository; items and operator approvals are always
// scoped by Ref.
type Registry struct {
	Ref             string
	Name            string
	Symbol          string
	ImageURI        string
	Admin           string
	BaseURI         string
	OperatorAccount string
	CreatedAt       time.Time
}

// TokenEvent is the outbound payload appended to the token outbox. The
// repository fills TokenID for mint events once the counter assigns it.
type TokenEvent struct {
	EventID     string
	EventType   string
	RegistryRef string
	TokenID     uint64
	Account     string
	Operator    string
	OccurredAt  time.Time
}

// ItemRepository owns registries, item rows, the per-registry token counter,
// and the operator capability table. Every write method is a whole-operation
// boundary: all listed effects commit together or not at all.
type ItemRepository interface {
	CreateRegistry(ctx context.Context, registry Registry) error
	GetRegistry(ctx context.Context, ref string) (Registry, error)
	GetItem(ctx context.Context, ref string, tokenID uint64) (entities.Item, error)
	ListItemsByOwner(ctx context.Context, ref string, owner string) ([]entities.Item, error)
	// IsOperator reports whether operator holds blanket transfer rights over
	// account's holdings in the given registry.
	IsOperator(ctx context.Context, ref string, account string, operator string) (bool, error)
	// MintItem allocates the next sequential token id (starting at 1), inserts
	// the item, idempotently approves operator for the minter's holdings, and
	// appends the minted/approved outbox events. Returns the assigned id.
	MintItem(ctx context.Context, item entities.Item, operator string, mintEvent TokenEvent, approvalEvent TokenEvent) (uint64, error)
	// BurnItem deletes the item row so later reads fail with ErrTokenNotFound.
	// The delete is guarded on owner still holding the token, so the
	// authorisation check commits together with the write; a stale owner
	// fails with ErrBurnNotAuthorised.
	BurnItem(ctx context.Context, ref string, tokenID uint64, owner string, event TokenEvent) error
	// UpdateExclusion persists the royalty exclusion flag. The event is only
	// appended when the flag was set.
	UpdateExclusion(ctx context.Context, item entities.Item, event *TokenEvent) error
	// TransferItem rebinds ownership from -> to. It fails when the current
	// owner is not from.
	TransferItem(ctx context.Context, ref string, tokenID uint64, from string, to string, event TokenEvent) error
}

// Clock allows deterministic timestamps in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator creates event and registry identifiers.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a pending token event ready to relay.
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
