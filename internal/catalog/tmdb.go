package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	tmdbBaseURL = "https://api.themoviedb.org/3"
	// Shared image base attached to every poster path; w500 is plenty for
	// result cards.
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBClient talks to the TMDB v3 API. Every request carries the API key
// and language; responses are decoded into typed structs where a missing
// results field simply yields an empty slice.
type TMDBClient struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
}

// NewTMDBClient creates a TMDB client. Pass nil to use http.DefaultClient.
func NewTMDBClient(apiKey, language string, httpc *http.Client) *TMDBClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if language == "" {
		language = "en-US"
	}
	return &TMDBClient{
		baseURL:  tmdbBaseURL,
		apiKey:   apiKey,
		language: language,
		httpc:    httpc,
	}
}

func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("tmdb: building request for %s: %w", path, err)
	}

	q := req.URL.Query()
	for key, values := range params {
		for _, val := range values {
			q.Add(key, val)
		}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("tmdb: GET %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("tmdb: decoding %s response: %w", path, err)
	}
	return nil
}

type tmdbGenreResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbResult struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

type tmdbResultsResponse struct {
	Results []tmdbResult `json:"results"`
}

// MovieGenres fetches the movie genre id→name list.
func (c *TMDBClient) MovieGenres(ctx context.Context) (map[int]string, error) {
	return c.genreList(ctx, "/genre/movie/list")
}

// TVGenres fetches the TV genre id→name list.
func (c *TMDBClient) TVGenres(ctx context.Context) (map[int]string, error) {
	return c.genreList(ctx, "/genre/tv/list")
}

func (c *TMDBClient) genreList(ctx context.Context, path string) (map[int]string, error) {
	var payload tmdbGenreResponse
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	genres := make(map[int]string, len(payload.Genres))
	for _, g := range payload.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// SearchMulti runs a text search across movies and TV. Page 1 only, adult
// content excluded.
func (c *TMDBClient) SearchMulti(ctx context.Context, query string) ([]Item, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var payload tmdbResultsResponse
	if err := c.get(ctx, "/search/multi", params, &payload); err != nil {
		return nil, err
	}

	return normalizeTMDB(payload.Results, ""), nil
}

// Recommendations fetches the recommendation list for a movie or TV item.
func (c *TMDBClient) Recommendations(ctx context.Context, kind string, id int64) ([]Item, error) {
	path := fmt.Sprintf("/%s/%d/recommendations", kind, id)

	var payload tmdbResultsResponse
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	return normalizeTMDB(payload.Results, kind), nil
}

// DiscoverByGenre lists movies or TV shows for a genre, most popular first.
// Page 1 only.
func (c *TMDBClient) DiscoverByGenre(ctx context.Context, kind string, genreID int) ([]Item, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", "1")

	var payload tmdbResultsResponse
	if err := c.get(ctx, "/discover/"+kind, params, &payload); err != nil {
		return nil, err
	}

	return normalizeTMDB(payload.Results, kind), nil
}

func normalizeTMDB(results []tmdbResult, fallbackKind string) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		kind := r.MediaType
		if kind == "" {
			kind = fallbackKind
		}

		title := r.Title
		if title == "" {
			title = r.Name
		}

		date := r.ReleaseDate
		if date == "" {
			date = r.FirstAirDate
		}

		posterURL := ""
		if r.PosterPath != "" {
			posterURL = tmdbImageBaseURL + r.PosterPath
		}

		items = append(items, Item{
			ID:          r.ID,
			MediaKind:   kind,
			Title:       title,
			Overview:    r.Overview,
			PosterURL:   posterURL,
			ReleaseDate: date,
			Score:       r.VoteAverage,
			Popularity:  r.Popularity,
		})
	}
	return items
}
