package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/gorm"
)

const ownedClause = "id = ? AND user_id = ?"

// GormItemRepository is a GORM implementation of ItemRepository for one item model.
type GormItemRepository[T any, PT EntryPointer[T]] struct {
	db   *gorm.DB
	kind models.Kind
}

// NewItemRepository creates an ItemRepository for the model T:
//
//	tasks := repository.NewItemRepository[models.Task](db)
func NewItemRepository[T any, PT EntryPointer[T]](db *gorm.DB) ItemRepository[T] {
	var zero T
	return &GormItemRepository[T, PT]{db: db, kind: PT(&zero).Kind()}
}

// List retrieves the user's items for one date, oldest first
func (r *GormItemRepository[T, PT]) List(ctx context.Context, userID uint64, date string) ([]T, error) {
	items := make([]T, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.kind.Name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create creates a new item
func (r *GormItemRepository[T, PT]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.kind.Name, err)
	}
	return nil
}

// FindOwned finds an item by ID within the user's items
func (r *GormItemRepository[T, PT]) FindOwned(ctx context.Context, userID, id uint64) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where(ownedClause, id, userID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Update runs the owner-scoped update and the read-back in one transaction,
// so the returned row is the one the update produced.
func (r *GormItemRepository[T, PT]) Update(ctx context.Context, userID, id uint64, fields map[string]any) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(new(T)).Where(ownedClause, id, userID).Updates(fields).Error; err != nil {
			return fmt.Errorf("update %s: %w", r.kind.Name, err)
		}
		// A zero-row update is either a foreign/missing id or an unchanged value;
		// the scoped read tells them apart.
		return tx.Where(ownedClause, id, userID).First(&item).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Delete permanently deletes an item
func (r *GormItemRepository[T, PT]) Delete(ctx context.Context, userID, id uint64) error {
	res := r.db.WithContext(ctx).Where(ownedClause, id, userID).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.kind.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts items for a date, optionally only those whose flag equals *flag
func (r *GormItemRepository[T, PT]) Count(ctx context.Context, userID uint64, date string, flag *bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(new(T)).Where("user_id = ? AND date = ?", userID, date)
	if flag != nil {
		query = query.Where(r.kind.Flag+" = ?", *flag)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %ss: %w", r.kind.Name, err)
	}
	return count, nil
}
