// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation.
package repository

import (
	"context"

	"github.com/rmansoor/watchdex/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in ID and CreatedAt.
	// Returns apperror.ErrConflict if the username or email is taken.
	Create(ctx context.Context, user *model.User) error
	// GetByID returns apperror.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail returns apperror.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// WatchlistRepository persists per-user saved catalog items.
type WatchlistRepository interface {
	// Add inserts a new item and fills in ID and CreatedAt. Returns
	// apperror.ErrConflict if the (user, kind, item) triple already exists.
	Add(ctx context.Context, item *model.WatchlistItem) error
	// ListForUser returns the user's items in insertion order.
	ListForUser(ctx context.Context, userID int64) ([]model.WatchlistItem, error)
	// Remove deletes the item with the given row id if it belongs to the
	// user. Returns apperror.ErrNotFound otherwise.
	Remove(ctx context.Context, userID, id int64) error
}
