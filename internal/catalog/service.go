package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/model"
)

// Service translates user-facing query intents into provider calls.
//
// Browsing is best-effort: upstream failures degrade to empty results and
// are logged, never surfaced to the caller. The only errors returned are
// validation errors raised before any network call.
type Service struct {
	tmdb   *TMDBClient
	jikan  *JikanClient
	genres *GenreCache
	logger *slog.Logger
}

func NewService(tmdb *TMDBClient, jikan *JikanClient, genres *GenreCache, logger *slog.Logger) *Service {
	return &Service{
		tmdb:   tmdb,
		jikan:  jikan,
		genres: genres,
		logger: logger,
	}
}

// RefreshGenres populates the genre cache, normally once at startup. The
// three mappings are fetched sequentially and replaced independently: a
// failed fetch leaves that mapping untouched and never clears the others.
func (s *Service) RefreshGenres(ctx context.Context) {
	if genres, err := s.tmdb.MovieGenres(ctx); err != nil {
		s.logger.Warn("movie genre refresh failed", slog.String("error", err.Error()))
	} else {
		s.genres.Replace(model.KindMovie, genres)
	}

	if genres, err := s.tmdb.TVGenres(ctx); err != nil {
		s.logger.Warn("tv genre refresh failed", slog.String("error", err.Error()))
	} else {
		s.genres.Replace(model.KindTV, genres)
	}

	if genres, err := s.jikan.AnimeGenres(ctx); err != nil {
		s.logger.Warn("anime genre refresh failed", slog.String("error", err.Error()))
	} else {
		s.genres.Replace(model.KindAnime, genres)
	}
}

// Search runs a movie/TV text search. An empty query returns an empty
// result without touching the network.
func (s *Service) Search(ctx context.Context, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Item{}
	}

	items, err := s.tmdb.SearchMulti(ctx, query)
	if err != nil {
		s.logger.Warn("search degraded to empty results",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return []Item{}
	}
	return items
}

// SearchAnime runs an anime text search with the same contract as Search.
func (s *Service) SearchAnime(ctx context.Context, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Item{}
	}

	items, err := s.jikan.SearchAnime(ctx, query)
	if err != nil {
		s.logger.Warn("anime search degraded to empty results",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return []Item{}
	}
	return items
}

// Recommendations fetches the recommendation list for an item, routed to
// the provider owning the media kind.
func (s *Service) Recommendations(ctx context.Context, kind model.MediaKind, id int64) ([]Item, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "item id is required")
	}

	var (
		items []Item
		err   error
	)
	switch kind {
	case model.KindMovie, model.KindTV:
		items, err = s.tmdb.Recommendations(ctx, string(kind), id)
	case model.KindAnime:
		items, err = s.jikan.AnimeRecommendations(ctx, id)
	default:
		return nil, apperror.ValidationFailed("mediaKind", "media kind must be movie, tv, or anime")
	}

	if err != nil {
		s.logger.Warn("recommendations degraded to empty results",
			slog.String("mediaKind", string(kind)),
			slog.Int64("itemID", id),
			slog.String("error", err.Error()),
		)
		return []Item{}, nil
	}
	return items, nil
}

// BrowseResult is a genre-browse page: the resolved genre label (empty when
// the cache has no name for the id) plus the items.
type BrowseResult struct {
	Genre string `json:"genre"`
	Items []Item `json:"items"`
}

// BrowseByGenre lists items for a genre, most popular first. A missing
// genre id is rejected before any network call.
func (s *Service) BrowseByGenre(ctx context.Context, kind model.MediaKind, genreID int) (*BrowseResult, error) {
	if genreID <= 0 {
		return nil, apperror.ValidationFailed("genre", "genre id is required")
	}

	var (
		items []Item
		err   error
	)
	switch kind {
	case model.KindMovie, model.KindTV:
		items, err = s.tmdb.DiscoverByGenre(ctx, string(kind), genreID)
	case model.KindAnime:
		items, err = s.jikan.AnimeByGenre(ctx, genreID)
	default:
		return nil, apperror.ValidationFailed("mediaKind", "media kind must be movie, tv, or anime")
	}

	if err != nil {
		s.logger.Warn("genre browse degraded to empty results",
			slog.String("mediaKind", string(kind)),
			slog.Int("genreID", genreID),
			slog.String("error", err.Error()),
		)
		items = []Item{}
	}

	name, _ := s.genres.Lookup(kind, genreID)

	return &BrowseResult{Genre: name, Items: items}, nil
}

// Genres returns the cached genre mapping for a kind, for the genre
// selection listing.
func (s *Service) Genres(kind model.MediaKind) (map[int]string, error) {
	switch kind {
	case model.KindMovie, model.KindTV, model.KindAnime:
		return s.genres.All(kind), nil
	}
	return nil, apperror.ValidationFailed("mediaKind", "media kind must be movie, tv, or anime")
}
