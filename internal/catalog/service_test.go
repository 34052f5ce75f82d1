package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/model"
)

// newTestService wires a Service against a single test server handling both
// provider APIs, and counts every request that reaches it.
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	tmdb := NewTMDBClient("test-key", "en-US", srv.Client())
	tmdb.baseURL = srv.URL

	jikan := NewJikanClient(srv.Client())
	jikan.baseURL = srv.URL
	jikan.limiter = rate.NewLimiter(rate.Inf, 1)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(tmdb, jikan, NewGenreCache(), logger), &calls
}

func TestSearchEmptyQuerySkipsNetwork(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an empty query")
	})

	for _, query := range []string{"", "   ", "\t\n"} {
		items := svc.Search(context.Background(), query)
		assert.NotNil(t, items)
		assert.Empty(t, items)

		items = svc.SearchAnime(context.Background(), query)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
	assert.Zero(t, calls.Load())
}

func TestSearchUpstreamFailureDegradesToEmpty(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	items := svc.Search(context.Background(), "fight club")
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items = svc.SearchAnime(context.Background(), "cowboy bebop")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearchTrimsQuery(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		w.Write([]byte(`{"results":[{"id":438631,"media_type":"movie","title":"Dune"}]}`))
	})

	items := svc.Search(context.Background(), "  dune  ")
	require.Len(t, items, 1)
	assert.Equal(t, "Dune", items[0].Title)
}

func TestRecommendationsRouting(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/550/recommendations":
			w.Write([]byte(`{"results":[{"id":807,"title":"Se7en"}]}`))
		case "/tv/1399/recommendations":
			w.Write([]byte(`{"results":[{"id":94997,"name":"House of the Dragon"}]}`))
		case "/anime/1/recommendations":
			w.Write([]byte(`{"data":[{"entry":{"mal_id":205,"title":"Samurai Champloo"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	items, err := svc.Recommendations(context.Background(), model.KindMovie, 550)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Se7en", items[0].Title)

	items, err = svc.Recommendations(context.Background(), model.KindTV, 1399)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "House of the Dragon", items[0].Title)

	items, err = svc.Recommendations(context.Background(), model.KindAnime, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Samurai Champloo", items[0].Title)
}

func TestRecommendationsValidation(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation failures must not reach the network")
	})

	_, err := svc.Recommendations(context.Background(), model.KindMovie, 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.Recommendations(context.Background(), model.MediaKind("book"), 1)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	assert.Zero(t, calls.Load())
}

func TestRecommendationsUpstreamFailureDegradesToEmpty(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	items, err := svc.Recommendations(context.Background(), model.KindMovie, 550)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBrowseByGenre(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			assert.Equal(t, "28", r.URL.Query().Get("with_genres"))
			w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix"}]}`))
		case "/anime":
			assert.Equal(t, "1", r.URL.Query().Get("genres"))
			w.Write([]byte(`{"data":[{"mal_id":20,"title":"Naruto"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	svc.genres.Replace(model.KindMovie, map[int]string{28: "Action"})

	result, err := svc.BrowseByGenre(context.Background(), model.KindMovie, 28)
	require.NoError(t, err)
	assert.Equal(t, "Action", result.Genre)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "The Matrix", result.Items[0].Title)

	// Anime browse with an unpopulated cache: items flow, label is empty.
	result, err = svc.BrowseByGenre(context.Background(), model.KindAnime, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Genre)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Naruto", result.Items[0].Title)
}

func TestBrowseByGenreValidation(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation failures must not reach the network")
	})

	_, err := svc.BrowseByGenre(context.Background(), model.KindMovie, 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.BrowseByGenre(context.Background(), model.MediaKind("book"), 28)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	assert.Zero(t, calls.Load())
}

func TestBrowseByGenreUpstreamFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})
	svc.genres.Replace(model.KindTV, map[int]string{18: "Drama"})

	result, err := svc.BrowseByGenre(context.Background(), model.KindTV, 18)
	require.NoError(t, err)
	assert.Equal(t, "Drama", result.Genre)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}

func TestRefreshGenresPartialFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
		case "/genre/tv/list":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/genres/anime":
			w.Write([]byte(`{"data":[{"mal_id":1,"name":"Action"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	svc.RefreshGenres(context.Background())

	name, ok := svc.genres.Lookup(model.KindMovie, 28)
	require.True(t, ok)
	assert.Equal(t, "Action", name)

	// The failed tv fetch leaves that mapping empty without touching the rest.
	_, ok = svc.genres.Lookup(model.KindTV, 18)
	assert.False(t, ok)

	_, ok = svc.genres.Lookup(model.KindAnime, 1)
	assert.True(t, ok)
}

func TestRefreshGenresFailureKeepsOldMapping(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	svc.genres.Replace(model.KindMovie, map[int]string{28: "Action"})

	svc.RefreshGenres(context.Background())

	name, ok := svc.genres.Lookup(model.KindMovie, 28)
	require.True(t, ok, "a failed refresh must not clear the existing mapping")
	assert.Equal(t, "Action", name)
}

func TestGenres(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	svc.genres.Replace(model.KindMovie, map[int]string{28: "Action", 35: "Comedy"})

	genres, err := svc.Genres(model.KindMovie)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{28: "Action", 35: "Comedy"}, genres)

	genres, err = svc.Genres(model.KindAnime)
	require.NoError(t, err)
	assert.Empty(t, genres)

	_, err = svc.Genres(model.MediaKind("book"))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
