package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/daily-planner-api/internal/models"
)

var (
	// ErrNotFound is returned when no row matches, including rows that exist
	// but belong to another user.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("repository: duplicate record")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user and fills in its generated fields
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByLoginKey finds a user by its canonical login key
	FindByLoginKey(ctx context.Context, loginKey string) (*models.User, error)
}

// ItemRepository defines owner-scoped data access for one item kind.
// Every method filters by userID; there is no unscoped read or write.
type ItemRepository[T any] interface {
	// List returns the user's items for a date in insertion order
	List(ctx context.Context, userID uint64, date string) ([]T, error)

	// Create inserts a new item and fills in its generated fields
	Create(ctx context.Context, item *T) error

	// FindOwned returns the item if it exists and belongs to the user
	FindOwned(ctx context.Context, userID, id uint64) (*T, error)

	// Update applies column changes to an owned item and returns the stored row
	Update(ctx context.Context, userID, id uint64, fields map[string]any) (*T, error)

	// Delete permanently removes an owned item
	Delete(ctx context.Context, userID, id uint64) error

	// Count counts the user's items for a date, optionally filtered by the completion flag
	Count(ctx context.Context, userID uint64, date string, flag *bool) (int64, error)
}

// EntryPointer constrains PT to *T where *T is one of the item models.
type EntryPointer[T any] interface {
	*T
	models.Entry
}
