package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"curio/contexts/token-registry/token-ledger-service/domain/entities"
	domainerrors "curio/contexts/token-registry/token-ledger-service/domain/errors"
	"curio/contexts/token-registry/token-ledger-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&registryModel{},
		&itemModel{},
		&operatorModel{},
		&outboxModel{},
	)
}

func (r *Repository) CreateRegistry(ctx context.Context, registry ports.Registry) error {
	row := registryModelFromPort(registry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetRegistry(ctx context.Context, ref string) (ports.Registry, error) {
	var row registryModel
	err := r.db.WithContext(ctx).
		Where("ref = ?", ref).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Registry{}, domainerrors.ErrRegistryNotFound
		}
		return ports.Registry{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetItem(ctx context.Context, ref string, tokenID uint64) (entities.Item, error) {
	var row itemModel
	err := r.db.WithContext(ctx).
		Where("registry_ref = ? AND token_id = ?", ref, tokenID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Item{}, domainerrors.ErrTokenNotFound
		}
		return entities.Item{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListItemsByOwner(ctx context.Context, ref string, owner string) ([]entities.Item, error) {
	var rows []itemModel
	if err := r.db.WithContext(ctx).
		Where("registry_ref = ? AND owner = ?", ref, owner).
		Order("token_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) IsOperator(ctx context.Context, ref string, account string, operator string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&operatorModel{}).
		Where("registry_ref = ? AND account = ? AND operator = ?", ref, account, operator).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) MintItem(
	ctx context.Context,
	item entities.Item,
	operator string,
	mintEvent ports.TokenEvent,
	approvalEvent ports.TokenEvent,
) (uint64, error) {
	var tokenID uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The registry row carries the token counter; locking it serializes
		// id allocation with the item insert.
		var registry registryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ref = ?", item.RegistryRef).
			First(&registry).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRegistryNotFound
			}
			return err
		}

		tokenID = registry.NextTokenID
		if err := tx.Model(&registryModel{}).
			Where("ref = ?", item.RegistryRef).
			Update("next_token_id", tokenID+1).
			Error; err != nil {
			return err
		}

		item.TokenID = tokenID
		row := itemModelFromEntity(item)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}

		approval := operatorModel{
			RegistryRef: item.RegistryRef,
			Account:     item.Owner,
			Operator:    operator,
			CreatedAt:   mintEvent.OccurredAt.UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&approval).Error; err != nil {
			return err
		}

		mintEvent.TokenID = tokenID
		approvalEvent.TokenID = tokenID
		if err := appendOutbox(tx, mintEvent); err != nil {
			return err
		}
		return appendOutbox(tx, approvalEvent)
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

func (r *Repository) BurnItem(ctx context.Context, ref string, tokenID uint64, owner string, event ports.TokenEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("registry_ref = ? AND token_id = ? AND owner = ?", ref, tokenID, owner).
			Delete(&itemModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Distinguish a vanished token from one that changed hands
			// between the caller's read and this write.
			var count int64
			if err := tx.Model(&itemModel{}).
				Where("registry_ref = ? AND token_id = ?", ref, tokenID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrTokenNotFound
			}
			return domainerrors.ErrBurnNotAuthorised
		}
		return appendOutbox(tx, event)
	})
}

func (r *Repository) UpdateExclusion(ctx context.Context, item entities.Item, event *ports.TokenEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&itemModel{}).
			Where("registry_ref = ? AND token_id = ?", item.RegistryRef, item.TokenID).
			Updates(map[string]any{
				"royalty_excluded": item.RoyaltyExcluded,
				"updated_at":       item.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTokenNotFound
		}
		if event != nil {
			return appendOutbox(tx, *event)
		}
		return nil
	})
}

func (r *Repository) TransferItem(
	ctx context.Context,
	ref string,
	tokenID uint64,
	from string,
	to string,
	event ports.TokenEvent,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&itemModel{}).
			Where("registry_ref = ? AND token_id = ? AND owner = ?", ref, tokenID, from).
			Updates(map[string]any{
				"owner":      to,
				"updated_at": event.OccurredAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTransferNotAuthorised
		}
		return appendOutbox(tx, event)
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func appendOutbox(tx *gorm.DB, event ports.TokenEvent) error {
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
		return err
	}
	envelope.Data = data
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	row := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.RegistryRef,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type registryModel struct {
	Ref             string    `gorm:"column:ref;primaryKey"`
	Name            string    `gorm:"column:name"`
	Symbol          string    `gorm:"column:symbol"`
	ImageURI        string    `gorm:"column:image_uri"`
	Admin           string    `gorm:"column:admin"`
	BaseURI         string    `gorm:"column:base_uri"`
	OperatorAccount string    `gorm:"column:operator_account"`
	NextTokenID     uint64    `gorm:"column:next_token_id;default:1"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (registryModel) TableName() string {
	return "registries"
}

func registryModelFromPort(registry ports.Registry) registryModel {
	return registryModel{
		Ref:             registry.Ref,
		Name:            registry.Name,
		Symbol:          registry.Symbol,
		ImageURI:        registry.ImageURI,
		Admin:           registry.Admin,
		BaseURI:         registry.BaseURI,
		OperatorAccount: registry.OperatorAccount,
		NextTokenID:     1,
		CreatedAt:       registry.CreatedAt.UTC(),
	}
}

func (m registryModel) toPort() ports.Registry {
	return ports.Registry{
		Ref:             m.Ref,
		Name:            m.Name,
		Symbol:          m.Symbol,
		ImageURI:        m.ImageURI,
		Admin:           m.Admin,
		BaseURI:         m.BaseURI,
		OperatorAccount: m.OperatorAccount,
		CreatedAt:       m.CreatedAt,
	}
}

type itemModel struct {
	RegistryRef     string    `gorm:"column:registry_ref;primaryKey"`
	TokenID         uint64    `gorm:"column:token_id;primaryKey"`
	URI             string    `gorm:"column:uri"`
	Owner           string    `gorm:"column:owner;index"`
	Creator         string    `gorm:"column:creator"`
	RoyaltyRate     int       `gorm:"column:royalty_rate"`
	RoyaltyExcluded bool      `gorm:"column:royalty_excluded"`
	MintedAt        time.Time `gorm:"column:minted_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (itemModel) TableName() string {
	return "items"
}

func itemModelFromEntity(item entities.Item) itemModel {
	return itemModel{
		RegistryRef:     item.RegistryRef,
		TokenID:         item.TokenID,
		URI:             item.URI,
		Owner:           item.Owner,
		Creator:         item.Creator,
		RoyaltyRate:     item.RoyaltyRate,
		RoyaltyExcluded: item.RoyaltyExcluded,
		MintedAt:        item.MintedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

func (m itemModel) toEntity() entities.Item {
	return entities.Item{
		RegistryRef:     m.RegistryRef,
		TokenID:         m.TokenID,
		URI:             m.URI,
		Owner:           m.Owner,
		Creator:         m.Creator,
		RoyaltyRate:     m.RoyaltyRate,
		RoyaltyExcluded: m.RoyaltyExcluded,
		MintedAt:        m.MintedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type operatorModel struct {
	RegistryRef string    `gorm:"column:registry_ref;primaryKey"`
	Account     string    `gorm:"column:account;primaryKey"`
	Operator    string    `gorm:"column:operator;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (operatorModel) TableName() string {
	return "token_operators"
}

type outboxModel struct {
	OutboxID     string    `gorm:"column:outbox_id;primaryKey"`
	EventType    string    `gorm:"column:event_type"`
	PartitionKey string    `gorm:"column:partition_key"`
	Payload      []byte    `gorm:"column:payload"`
	Status       string    `gorm:"column:status;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	SentAt       time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "token_outbox"
}
