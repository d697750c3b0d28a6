package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

const DBTableName_Items = "items"

type ItemRepo struct {
	repo      *sqlx.DB
	tableName string
}

func NewItemRepo(db *sqlx.DB) *ItemRepo {
	return &ItemRepo{
		repo:      db,
		tableName: DBTableName_Items,
	}
}

func (r *ItemRepo) Get(ctx context.Context, id int) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf("SELECT id, name, category, quantity, tag FROM %s WHERE id = $1", r.tableName)
	err := r.repo.GetContext(ctx, item, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
		}
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

func (r *ItemRepo) GetByTag(ctx context.Context, tag string) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf("SELECT id, name, category, quantity, tag FROM %s WHERE tag = $1", r.tableName)
	err := r.repo.GetContext(ctx, item, q, tag)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

// List returns items with stock on hand. The quantity > 0 filter applies
// to list reads only, zero-quantity rows stay addressable by id.
func (r *ItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	q := fmt.Sprintf("SELECT id, name, category, quantity, tag FROM %s WHERE quantity > 0 ORDER BY id", r.tableName)
	err := r.repo.SelectContext(ctx, &items, q)
	if err != nil {
		return nil, pkgerrors.NewStorageError(err)
	}
	return items, nil
}

func (r *ItemRepo) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Item, error) {
	items := []domain.Item{}
	q := fmt.Sprintf("SELECT id, name, category, quantity, tag FROM %s WHERE category = $1 AND quantity > 0 ORDER BY id", r.tableName)
	err := r.repo.SelectContext(ctx, &items, q, category)
	if err != nil {
		return nil, pkgerrors.NewStorageError(err)
	}
	return items, nil
}

// UpsertAdd inserts a new (name, category) row or adds qty to the existing
// one, as a single statement so concurrent creates of the same pair cannot
// both insert.
func (r *ItemRepo) UpsertAdd(ctx context.Context, name string, category domain.Category, qty int, tag string) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf(`INSERT INTO %s (name, category, quantity, tag) VALUES($1, $2, $3, $4)
		ON CONFLICT (name, category) DO UPDATE SET quantity = %s.quantity + EXCLUDED.quantity
		RETURNING id, name, category, quantity, tag`, r.tableName, r.tableName)
	err := r.repo.GetContext(ctx, item, q, name, category, qty, tag)
	if err != nil {
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

// AddByTag adds delta to the item owning the tag. Returns (nil, nil) when
// no item owns it, the scan then stays pending in the registry.
func (r *ItemRepo) AddByTag(ctx context.Context, tag string, delta int) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf("UPDATE %s SET quantity = quantity + $2 WHERE tag = $1 RETURNING id, name, category, quantity, tag", r.tableName)
	err := r.repo.GetContext(ctx, item, q, tag, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

// AdjustQuantity applies a signed delta with a floor at zero.
func (r *ItemRepo) AdjustQuantity(ctx context.Context, id int, delta int) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf("UPDATE %s SET quantity = GREATEST(quantity + $2, 0) WHERE id = $1 RETURNING id, name, category, quantity, tag", r.tableName)
	err := r.repo.GetContext(ctx, item, q, id, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
		}
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

func (r *ItemRepo) SetQuantity(ctx context.Context, id int, quantity int) (*domain.Item, error) {
	item := &domain.Item{}
	q := fmt.Sprintf("UPDATE %s SET quantity = $2 WHERE id = $1 RETURNING id, name, category, quantity, tag", r.tableName)
	err := r.repo.GetContext(ctx, item, q, id, quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
		}
		return nil, pkgerrors.NewStorageError(err)
	}
	return item, nil
}

func (r *ItemRepo) Delete(ctx context.Context, id int) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.tableName)
	res, err := r.repo.ExecContext(ctx, q, id)
	if err != nil {
		return pkgerrors.NewStorageError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewStorageError(err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
	}
	return nil
}
