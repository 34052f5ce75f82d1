package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmansoor/watchdex/internal/auth"
	"github.com/rmansoor/watchdex/internal/service"
)

// WatchlistHandler manages the authenticated user's saved items. All routes
// sit behind the session gate, so the user id is always in the context.
type WatchlistHandler struct {
	watchlist *service.WatchlistService
	logger    *slog.Logger
}

func NewWatchlistHandler(watchlist *service.WatchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlist: watchlist,
		logger:    logger,
	}
}

type addItemRequest struct {
	MediaKind string `json:"mediaKind"`
	ItemID    int64  `json:"itemId"`
	Title     string `json:"title"`
	PosterURL string `json:"posterUrl"`
}

// HandleAdd saves an item to the watchlist. Saving the same (kind, item)
// pair twice returns 409.
//
// HTTP: POST /api/watchlist
// Body: {"mediaKind": "movie", "itemId": 550, "title": "...", "posterUrl": "..."}
func (h *WatchlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "login required",
		})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	item, err := h.watchlist.Add(r.Context(), userID, req.MediaKind, req.ItemID, req.Title, req.PosterURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// HandleList returns the user's saved items, oldest first.
//
// HTTP: GET /api/watchlist
func (h *WatchlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "login required",
		})
		return
	}

	items, err := h.watchlist.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleRemove deletes one saved item by its row id. Removing an item that
// does not exist, or that belongs to another user, returns 404.
//
// HTTP: DELETE /api/watchlist/{id}
func (h *WatchlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "login required",
		})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "watchlist item id must be a number",
		})
		return
	}

	if err := h.watchlist.Remove(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
