package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/model"
)

// mockWatchlistRepo is an in-memory WatchlistRepository enforcing the
// (user, kind, item) uniqueness rule like the database does.
type mockWatchlistRepo struct {
	items  map[int64]*model.WatchlistItem
	nextID int64
}

func newMockWatchlistRepo() *mockWatchlistRepo {
	return &mockWatchlistRepo{items: make(map[int64]*model.WatchlistItem)}
}

func (m *mockWatchlistRepo) key(userID int64, kind model.MediaKind, itemID int64) string {
	return fmt.Sprintf("%d/%s/%d", userID, kind, itemID)
}

func (m *mockWatchlistRepo) Add(_ context.Context, item *model.WatchlistItem) error {
	for _, it := range m.items {
		if m.key(it.UserID, it.MediaKind, it.ItemID) == m.key(item.UserID, item.MediaKind, item.ItemID) {
			return apperror.Conflict("watchlist item", "already saved")
		}
	}
	m.nextID++
	item.ID = m.nextID
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockWatchlistRepo) ListForUser(_ context.Context, userID int64) ([]model.WatchlistItem, error) {
	result := []model.WatchlistItem{}
	for id := int64(1); id <= m.nextID; id++ {
		if it, ok := m.items[id]; ok && it.UserID == userID {
			result = append(result, *it)
		}
	}
	return result, nil
}

func (m *mockWatchlistRepo) Remove(_ context.Context, userID, id int64) error {
	it, ok := m.items[id]
	if !ok || it.UserID != userID {
		return apperror.NotFound("watchlist item", id)
	}
	delete(m.items, id)
	return nil
}

func newTestWatchlistService(t *testing.T) *WatchlistService {
	t.Helper()
	return NewWatchlistService(newMockWatchlistRepo(), testLogger())
}

func TestWatchlistAdd_Success(t *testing.T) {
	svc := newTestWatchlistService(t)

	item, err := svc.Add(context.Background(), 1, "movie", 550, "Fight Club", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if item.ID == 0 {
		t.Error("expected item to have an ID")
	}
	if item.MediaKind != model.KindMovie {
		t.Errorf("MediaKind = %q, want movie", item.MediaKind)
	}
}

func TestWatchlistAdd_DuplicateConflicts(t *testing.T) {
	svc := newTestWatchlistService(t)

	if _, err := svc.Add(context.Background(), 1, "movie", 550, "Fight Club", ""); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	_, err := svc.Add(context.Background(), 1, "movie", 550, "Fight Club", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Add(): error = %v, want ErrConflict", err)
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want exactly 1", len(items))
	}
	if items[0].Title != "Fight Club" {
		t.Errorf("Title = %q, want Fight Club", items[0].Title)
	}
}

func TestWatchlistAdd_NormalizesKind(t *testing.T) {
	svc := newTestWatchlistService(t)

	item, err := svc.Add(context.Background(), 1, "  Movie ", 550, "Fight Club", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if item.MediaKind != model.KindMovie {
		t.Errorf("MediaKind = %q, want movie", item.MediaKind)
	}
}

func TestWatchlistAdd_Validation(t *testing.T) {
	svc := newTestWatchlistService(t)

	tests := []struct {
		name   string
		kind   string
		itemID int64
		title  string
	}{
		{"unknown kind", "book", 1, "title"},
		{"empty kind", "", 1, "title"},
		{"zero item id", "movie", 0, "title"},
		{"empty title", "movie", 1, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), 1, tt.kind, tt.itemID, tt.title, "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestWatchlistList_PerUserIsolation(t *testing.T) {
	svc := newTestWatchlistService(t)

	if _, err := svc.Add(context.Background(), 1, "movie", 550, "Fight Club", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Add(context.Background(), 2, "anime", 20, "Naruto", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].UserID != 1 {
		t.Errorf("List(1) leaked another user's items: %+v", items)
	}
}

func TestWatchlistRemove(t *testing.T) {
	svc := newTestWatchlistService(t)

	item, _ := svc.Add(context.Background(), 1, "movie", 550, "Fight Club", "")

	if err := svc.Remove(context.Background(), 1, item.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	items, _ := svc.List(context.Background(), 1)
	if len(items) != 0 {
		t.Errorf("got %d items after remove, want 0", len(items))
	}
}

func TestWatchlistRemove_Validation(t *testing.T) {
	svc := newTestWatchlistService(t)

	if err := svc.Remove(context.Background(), 1, 0); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
