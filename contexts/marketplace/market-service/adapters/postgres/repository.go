package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"curio/contexts/marketplace/market-service/domain/entities"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	listingCounterName = "listing_id"
)

// Repository implements the marketplace ports over Postgres. Settlement runs
// as one database transaction spanning the listing, the ledger's item and
// operator tables, wallet balances, and both outboxes; this is how the
// single-database deployment reproduces the whole-operation atomicity the
// marketplace requires.
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

// Migrate creates the marketplace tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&listingModel{},
		&counterModel{},
		&walletModel{},
		&outboxModel{},
	)
}

func (r *Repository) GetListing(ctx context.Context, listingID uint64) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListListings(ctx context.Context) ([]entities.Listing, error) {
	var rows []listingModel
	if err := r.db.WithContext(ctx).
		Order("listing_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	listings := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toEntity())
	}
	return listings, nil
}

func (r *Repository) CreateListingWithOutbox(
	ctx context.Context,
	listing entities.Listing,
	event ports.MarketEvent,
) (uint64, error) {
	var listingID uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&counterModel{Name: listingCounterName, NextID: 1}).Error; err != nil {
			return err
		}
		var counter counterModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", listingCounterName).
			First(&counter).
			Error; err != nil {
			return err
		}
		listingID = counter.NextID
		if err := tx.Model(&counterModel{}).
			Where("name = ?", listingCounterName).
			Update("next_id", listingID+1).
			Error; err != nil {
			return err
		}

		listing.ListingID = listingID
		row := listingModelFromEntity(listing)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}

		event.ListingID = listingID
		return appendOutbox(tx, event)
	})
	if err != nil {
		return 0, err
	}
	return listingID, nil
}

func (r *Repository) SettleSale(ctx context.Context, sale ports.SaleInstruction, event ports.MarketEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row listingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_id = ?", sale.Listing.ListingID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrListingNotFound
			}
			return err
		}
		if row.Sold {
			return domainerrors.ErrAlreadySold
		}

		// Capability check: the marketplace account must hold blanket operator
		// rights over the seller's holdings in the listed registry.
		if sale.Operator != row.Seller {
			var approvals int64
			if err := tx.Table("token_operators").
				Where("registry_ref = ? AND account = ? AND operator = ?", row.RegistryRef, row.Seller, sale.Operator).
				Count(&approvals).
				Error; err != nil {
				return err
			}
			if approvals == 0 {
				return domainerrors.ErrTransferRejected
			}
		}

		transfer := tx.Table("items").
			Where("registry_ref = ? AND token_id = ? AND owner = ?", row.RegistryRef, row.TokenID, row.Seller).
			Updates(map[string]any{
				"owner":      sale.Buyer,
				"updated_at": event.OccurredAt.UTC(),
			})
		if transfer.Error != nil {
			return transfer.Error
		}
		if transfer.RowsAffected == 0 {
			return domainerrors.ErrTransferRejected
		}

		debit := tx.Model(&walletModel{}).
			Where("account = ? AND balance >= ?", sale.Buyer, sale.Payment).
			Updates(map[string]any{
				"balance":    gorm.Expr("balance - ?", sale.Payment),
				"updated_at": event.OccurredAt.UTC(),
			})
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return domainerrors.ErrPaymentFailed
		}

		credit := walletModel{
			Account:   row.Seller,
			Balance:   sale.Payment,
			UpdatedAt: event.OccurredAt.UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("wallet_balances.balance + ?", sale.Payment),
				"updated_at": event.OccurredAt.UTC(),
			}),
		}).Create(&credit).Error; err != nil {
			return err
		}

		if err := tx.Model(&listingModel{}).
			Where("listing_id = ?", row.ListingID).
			Updates(map[string]any{
				"sold":       true,
				"updated_at": event.OccurredAt.UTC(),
			}).Error; err != nil {
			return err
		}

		if err := appendTokenTransferOutbox(tx, sale, event); err != nil {
			return err
		}
		return appendOutbox(tx, event)
	})
}

func (r *Repository) AppendEvent(ctx context.Context, event ports.MarketEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendOutbox(tx, event)
	})
}

func (r *Repository) Balance(ctx context.Context, account string) (int64, error) {
	var row walletModel
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Balance, nil
}

func (r *Repository) Deposit(ctx context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidDeposit
	}
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		row := walletModel{
			Account:   account,
			Balance:   amount,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("wallet_balances.balance + ?", amount),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		var updated walletModel
		if err := tx.Where("account = ?", account).First(&updated).Error; err != nil {
			return err
		}
		balance = updated.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
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

func appendOutbox(tx *gorm.DB, event ports.MarketEvent) error {
	payload, err := marshalEnvelope(event)
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

// appendTokenTransferOutbox mirrors the token.transferred event the ledger
// emits on its own transfer path, so downstream consumers see the ownership
// change regardless of which adapter settled the sale.
func appendTokenTransferOutbox(tx *gorm.DB, sale ports.SaleInstruction, event ports.MarketEvent) error {
	envelope := ports.EventEnvelope{
		EventID:          fmt.Sprintf("%s-transfer", event.EventID),
		EventType:        "token.transferred",
		OccurredAt:       event.OccurredAt,
		SourceService:    "token-ledger-service",
		SchemaVersion:    1,
		PartitionKeyPath: "registry_ref",
		PartitionKey:     event.RegistryRef,
	}
	data, err := json.Marshal(map[string]string{
		"registry_ref": event.RegistryRef,
		"token_id":     fmt.Sprintf("%d", event.TokenID),
		"account":      sale.Buyer,
		"operator":     sale.Operator,
	})
	if err != nil {
		return err
	}
	envelope.Data = data
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return tx.Table("token_outbox").Create(map[string]any{
		"outbox_id":     envelope.EventID,
		"event_type":    envelope.EventType,
		"partition_key": envelope.PartitionKey,
		"payload":       payload,
		"status":        outboxStatusPending,
		"created_at":    event.OccurredAt.UTC(),
	}).Error
}

func marshalEnvelope(event ports.MarketEvent) ([]byte, error) {
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
		return nil, err
	}
	envelope.Data = data
	return json.Marshal(envelope)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type listingModel struct {
	ListingID   uint64    `gorm:"column:listing_id;primaryKey"`
	RegistryRef string    `gorm:"column:registry_ref;index"`
	TokenID     uint64    `gorm:"column:token_id"`
	Price       int64     `gorm:"column:price"`
	Currency    string    `gorm:"column:currency"`
	Seller      string    `gorm:"column:seller"`
	Sold        bool      `gorm:"column:sold"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string {
	return "listings"
}

func listingModelFromEntity(listing entities.Listing) listingModel {
	return listingModel{
		ListingID:   listing.ListingID,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Price:       listing.Price,
		Currency:    listing.Currency,
		Seller:      listing.Seller,
		Sold:        listing.Sold,
		CreatedAt:   listing.CreatedAt.UTC(),
		UpdatedAt:   listing.UpdatedAt.UTC(),
	}
}

func (m listingModel) toEntity() entities.Listing {
	return entities.Listing{
		ListingID:   m.ListingID,
		RegistryRef: m.RegistryRef,
		TokenID:     m.TokenID,
		Price:       m.Price,
		Currency:    m.Currency,
		Seller:      m.Seller,
		Sold:        m.Sold,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type counterModel struct {
	Name   string `gorm:"column:name;primaryKey"`
	NextID uint64 `gorm:"column:next_id"`
}

func (counterModel) TableName() string {
	return "market_counters"
}

type walletModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	Balance   int64     `gorm:"column:balance"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (walletModel) TableName() string {
	return "wallet_balances"
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
	return "market_outbox"
}
