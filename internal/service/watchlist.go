package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/model"
	"github.com/rmansoor/watchdex/internal/repository"
)

const MaxTitleLength = 200

// WatchlistService handles the per-user saved-items rules.
type WatchlistService struct {
	repo   repository.WatchlistRepository
	logger *slog.Logger
}

func NewWatchlistService(repo repository.WatchlistRepository, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{
		repo:   repo,
		logger: logger,
	}
}

// Add saves a catalog entry to the user's watchlist. Returns a conflict
// error if the same (kind, item) pair is already saved for this user.
func (s *WatchlistService) Add(ctx context.Context, userID int64, kind string, itemID int64, title, posterURL string) (*model.WatchlistItem, error) {
	mediaKind, ok := model.ParseMediaKind(strings.ToLower(strings.TrimSpace(kind)))
	if !ok {
		return nil, apperror.ValidationFailed("mediaKind", "media kind must be movie, tv, or anime")
	}
	if itemID <= 0 {
		return nil, apperror.ValidationFailed("itemId", "item id is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	item := &model.WatchlistItem{
		UserID:    userID,
		MediaKind: mediaKind,
		ItemID:    itemID,
		Title:     title,
		PosterURL: strings.TrimSpace(posterURL),
	}

	if err := s.repo.Add(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("watchlist item added",
		slog.Int64("userID", userID),
		slog.String("mediaKind", string(mediaKind)),
		slog.Int64("itemID", itemID),
	)

	return item, nil
}

// List returns all items the user has saved.
func (s *WatchlistService) List(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list watchlist",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}
	return items, nil
}

// Remove deletes one of the user's saved items by row id.
func (s *WatchlistService) Remove(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "watchlist item id is required")
	}

	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("watchlist item removed",
		slog.Int64("userID", userID),
		slog.Int64("itemID", id),
	)
	return nil
}
