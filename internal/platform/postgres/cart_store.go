package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CartStore implements store.CartStore on PostgreSQL. Each Save replaces the
// owner's cart row and all of its items inside a single transaction.
type CartStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.CartStore = (*CartStore)(nil)

// NewCartStore creates a CartStore over db. If logger is nil, the default
// logger is used.
func NewCartStore(db *sql.DB, logger *slog.Logger) *CartStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CartStore{
		db:     db,
		logger: logger.With(slog.String("component", "cart_store")),
		now:    time.Now,
	}
}

const (
	selectCartQuery = `
		SELECT total, updated_at
		FROM carts
		WHERE owner = $1
	`
	selectCartItemsQuery = `
		SELECT product_id, quantity, unit_price, added_at, updated_at
		FROM cart_items
		WHERE owner = $1
		ORDER BY position
	`
	upsertCartQuery = `
		INSERT INTO carts (owner, total, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (owner) DO UPDATE
		SET total = EXCLUDED.total, updated_at = EXCLUDED.updated_at
	`
	deleteCartItemsQuery = `DELETE FROM cart_items WHERE owner = $1`
	insertCartItemQuery  = `
		INSERT INTO cart_items (owner, product_id, position, quantity, unit_price, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
)

// GetOrCreate implements store.CartStore.
func (s *CartStore) GetOrCreate(ctx context.Context, subject string) (*domain.Cart, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cart := domain.NewCart(subject)
	err := s.db.QueryRowContext(ctx, selectCartQuery, subject).Scan(&cart.Total, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no stored cart, returning empty cart", slog.String("owner", subject))
		return cart, nil
	}
	if err != nil {
		log.Error("failed to load cart", slog.String("owner", subject), slog.String("error", err.Error()))
		return nil, store.NewStoreError("cart", "get", "failed to load cart", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx, selectCartItemsQuery, subject)
	if err != nil {
		log.Error("failed to load cart items", slog.String("owner", subject), slog.String("error", err.Error()))
		return nil, store.NewStoreError("cart", "get", "failed to load cart items", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.CartLineItem
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceSnapshot, &item.AddedAt, &updatedAt); err != nil {
			return nil, store.NewStoreError("cart", "get", "failed to scan cart item", err)
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			item.UpdatedAt = &t
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("cart", "get", "failed to iterate cart items", MapError(err))
	}

	if err := cart.Validate(); err != nil {
		log.Error("stored cart violates invariants",
			slog.String("owner", subject),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("cart", "get", "stored cart is inconsistent",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	return cart, nil
}

// Save implements store.CartStore.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil || cart.Owner == "" {
		return store.NewStoreError("cart", "save", "cart has no owner", store.ErrInvalidEntity)
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	updatedAt := cart.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertCartQuery, cart.Owner, cart.Total, updatedAt.UTC()); err != nil {
			return MapError(err)
		}
		if _, err := tx.ExecContext(ctx, deleteCartItemsQuery, cart.Owner); err != nil {
			return MapError(err)
		}
		for i, item := range cart.Items {
			var itemUpdatedAt any
			if item.UpdatedAt != nil {
				itemUpdatedAt = item.UpdatedAt.UTC()
			}
			if _, err := tx.ExecContext(ctx, insertCartItemQuery,
				cart.Owner,
				item.ProductID,
				i,
				item.Quantity,
				item.UnitPriceSnapshot,
				item.AddedAt.UTC(),
				itemUpdatedAt,
			); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save cart",
			slog.String("owner", cart.Owner),
			slog.String("error", err.Error()))
		return store.NewStoreError("cart", "save", "failed to save cart", err)
	}

	log.Debug("cart saved",
		slog.String("owner", cart.Owner),
		slog.Int("items", len(cart.Items)))
	return nil
}
