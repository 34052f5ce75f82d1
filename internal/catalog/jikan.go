package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

const (
	jikanBaseURL = "https://api.jikan.moe/v4"
	// Jikan's published limit is 3 requests per second.
	jikanRequestsPerSecond = 3
	// Search and browse results are capped at 20, most popular first.
	jikanResultLimit = 20
)

// JikanClient talks to the Jikan v4 API. Jikan needs no credential but does
// enforce a rate limit, so requests are paced through a limiter.
type JikanClient struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewJikanClient creates a Jikan client. Pass nil to use http.DefaultClient.
func NewJikanClient(httpc *http.Client) *JikanClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &JikanClient{
		baseURL: jikanBaseURL,
		httpc:   httpc,
		limiter: rate.NewLimiter(rate.Limit(jikanRequestsPerSecond), 1),
	}
}

func (c *JikanClient) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("jikan: waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("jikan: building request for %s: %w", path, err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("jikan: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("jikan: GET %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("jikan: decoding %s response: %w", path, err)
	}
	return nil
}

type jikanAnime struct {
	MalID    int64   `json:"mal_id"`
	Title    string  `json:"title"`
	Synopsis string  `json:"synopsis"`
	Score    float64 `json:"score"`
	Images   struct {
		JPG struct {
			ImageURL string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

type jikanListResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanGenresResponse struct {
	Data []struct {
		MalID int    `json:"mal_id"`
		Name  string `json:"name"`
	} `json:"data"`
}

type jikanRecommendationsResponse struct {
	Data []struct {
		Entry jikanAnime `json:"entry"`
	} `json:"data"`
}

// AnimeGenres fetches the anime genre id→name list. The ids live in MAL's
// genre space, disjoint from TMDB's.
func (c *JikanClient) AnimeGenres(ctx context.Context) (map[int]string, error) {
	var payload jikanGenresResponse
	if err := c.get(ctx, "/genres/anime", nil, &payload); err != nil {
		return nil, err
	}

	genres := make(map[int]string, len(payload.Data))
	for _, g := range payload.Data {
		genres[g.MalID] = g.Name
	}
	return genres, nil
}

// SearchAnime runs an anime text search, most popular first.
func (c *JikanClient) SearchAnime(ctx context.Context, query string) ([]Item, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.animeList(ctx, params)
}

// AnimeByGenre lists anime tagged with the given MAL genre id, most
// popular first.
func (c *JikanClient) AnimeByGenre(ctx context.Context, genreID int) ([]Item, error) {
	params := url.Values{}
	params.Set("genres", strconv.Itoa(genreID))
	return c.animeList(ctx, params)
}

func (c *JikanClient) animeList(ctx context.Context, params url.Values) ([]Item, error) {
	params.Set("order_by", "popularity")
	params.Set("sort", "desc")
	params.Set("limit", strconv.Itoa(jikanResultLimit))

	var payload jikanListResponse
	if err := c.get(ctx, "/anime", params, &payload); err != nil {
		return nil, err
	}

	return normalizeJikan(payload.Data), nil
}

// AnimeRecommendations fetches the recommendation list for a MAL id.
func (c *JikanClient) AnimeRecommendations(ctx context.Context, malID int64) ([]Item, error) {
	path := fmt.Sprintf("/anime/%d/recommendations", malID)

	var payload jikanRecommendationsResponse
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}

	entries := make([]jikanAnime, 0, len(payload.Data))
	for _, d := range payload.Data {
		entries = append(entries, d.Entry)
	}
	return normalizeJikan(entries), nil
}

func normalizeJikan(entries []jikanAnime) []Item {
	items := make([]Item, 0, len(entries))
	for _, a := range entries {
		items = append(items, Item{
			ID:        a.MalID,
			MediaKind: "anime",
			Title:     a.Title,
			Overview:  a.Synopsis,
			PosterURL: a.Images.JPG.ImageURL,
			Score:     a.Score,
		})
	}
	return items
}
