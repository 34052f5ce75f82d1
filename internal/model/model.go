// Package model defines the data structures used throughout the application.
package model

import "time"

// MediaKind discriminates the three catalog namespaces. Movie and TV ids
// belong to TMDB, anime ids to MyAnimeList. The id spaces overlap
// numerically, so an item is only identified by the (kind, id) pair.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
	KindAnime MediaKind = "anime"
)

// ParseMediaKind normalizes and validates a media kind string.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case KindMovie, KindTV, KindAnime:
		return MediaKind(s), true
	}
	return "", false
}

// User represents a registered account. Username and email are each
// globally unique (enforced by the database). PasswordHash holds a bcrypt
// hash and is never serialized.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// WatchlistItem is a saved reference to a catalog entry. The
// (UserID, MediaKind, ItemID) triple is unique per the watchlist_items
// UNIQUE constraint; a user cannot save the same item twice.
type WatchlistItem struct {
	ID        int64     `json:"id"                  db:"id"`
	UserID    int64     `json:"userId"              db:"user_id"`
	MediaKind MediaKind `json:"mediaKind"           db:"media_kind"`
	ItemID    int64     `json:"itemId"              db:"item_id"` // TMDB or MAL id, scoped by MediaKind
	Title     string    `json:"title"               db:"title"`
	PosterURL string    `json:"posterUrl,omitempty" db:"poster_url"`
	CreatedAt time.Time `json:"createdAt"           db:"created_at"`
}
