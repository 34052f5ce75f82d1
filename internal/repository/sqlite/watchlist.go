package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/model"
	"github.com/rmansoor/watchdex/internal/repository"
)

// compile-time check that *DB implements repository.WatchlistRepository
var _ repository.WatchlistRepository = (*DB)(nil)

// Add inserts a watchlist item. The (user_id, media_kind, item_id) UNIQUE
// constraint rejects duplicate saves, including under concurrent adds.
func (db *DB) Add(ctx context.Context, item *model.WatchlistItem) error {
	item.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO watchlist_items (user_id, media_kind, item_id, title, poster_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.UserID,
		string(item.MediaKind),
		item.ItemID,
		item.Title,
		item.PosterURL,
		item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("watchlist item", "already saved")
		}
		return fmt.Errorf("sqlite: inserting watchlist item (user=%d %s/%d): %w",
			item.UserID, item.MediaKind, item.ItemID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new watchlist item id: %w", err)
	}
	item.ID = id

	return nil
}

// ListForUser returns the user's saved items in insertion order.
func (db *DB) ListForUser(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, media_kind, item_id, title, poster_url, created_at
		 FROM watchlist_items WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing watchlist for user %d: %w", userID, err)
	}
	defer rows.Close()

	items := []model.WatchlistItem{}
	for rows.Next() {
		var it model.WatchlistItem
		var kind string
		if err := rows.Scan(&it.ID, &it.UserID, &kind, &it.ItemID, &it.Title, &it.PosterURL, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning watchlist item: %w", err)
		}
		it.MediaKind = model.MediaKind(kind)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating watchlist rows: %w", err)
	}

	return items, nil
}

// Remove deletes the user's item with the given row id. Scoping the DELETE
// by user_id means a user can never remove another user's item.
func (db *DB) Remove(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting watchlist item %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking deleted rows: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("watchlist item", id)
	}

	return nil
}
