package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmansoor/watchdex/internal/catalog"
	"github.com/rmansoor/watchdex/internal/model"
)

// CatalogHandler exposes search, browse, genre, and recommendation queries.
// These routes are public. Browse and search degrade to empty results on
// upstream trouble, so the only error responses here are validation errors.
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: svc,
		logger:  logger,
	}
}

type resultsResponse struct {
	Results []catalog.Item `json:"results"`
}

// HandleSearch runs a movie/TV text search. An empty query is a valid
// request with empty results.
//
// HTTP: GET /api/search?query=...
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Search(r.Context(), r.URL.Query().Get("query"))
	writeJSON(w, http.StatusOK, resultsResponse{Results: items})
}

// HandleAnimeSearch runs an anime text search with the same contract.
//
// HTTP: GET /api/anime/search?query=...
func (h *CatalogHandler) HandleAnimeSearch(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.SearchAnime(r.Context(), r.URL.Query().Get("query"))
	writeJSON(w, http.StatusOK, resultsResponse{Results: items})
}

// HandleRecommendations returns the recommendation list for a movie or TV
// show.
//
// HTTP: GET /api/{kind}/{id}/recommendations   (kind: movie | tv)
func (h *CatalogHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseMediaKind(r.PathValue("kind"))
	if !ok || kind == model.KindAnime {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "media kind must be movie or tv",
		})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "item id must be a number",
		})
		return
	}

	items, err := h.catalog.Recommendations(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{Results: items})
}

// HandleAnimeRecommendations returns the recommendation list for an anime.
//
// HTTP: GET /api/anime/{id}/recommendations
func (h *CatalogHandler) HandleAnimeRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "item id must be a number",
		})
		return
	}

	items, err := h.catalog.Recommendations(r.Context(), model.KindAnime, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{Results: items})
}

// HandleGenres lists the cached genre mapping for a kind.
//
// HTTP: GET /api/genres?kind=movie|tv|anime
func (h *CatalogHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseMediaKind(r.URL.Query().Get("kind"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "media kind must be movie, tv, or anime",
		})
		return
	}

	genres, err := h.catalog.Genres(kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]map[int]string{"genres": genres})
}

// HandleBrowse lists movies or TV shows for a genre, most popular first.
// A missing or non-numeric genre id is rejected before any provider call.
//
// HTTP: GET /api/browse?kind=movie|tv&genre={id}
func (h *CatalogHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseMediaKind(r.URL.Query().Get("kind"))
	if !ok || kind == model.KindAnime {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "media kind must be movie or tv",
		})
		return
	}

	h.browse(w, r, kind)
}

// HandleAnimeBrowse lists anime for a MAL genre id.
//
// HTTP: GET /api/anime/browse?genre={id}
func (h *CatalogHandler) HandleAnimeBrowse(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, model.KindAnime)
}

func (h *CatalogHandler) browse(w http.ResponseWriter, r *http.Request, kind model.MediaKind) {
	genreStr := r.URL.Query().Get("genre")
	if genreStr == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "genre id is required",
		})
		return
	}

	genreID, err := strconv.Atoi(genreStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "genre id must be a number",
		})
		return
	}

	result, err := h.catalog.BrowseByGenre(r.Context(), kind, genreID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
