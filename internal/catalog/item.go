// Package catalog talks to the two upstream catalog providers, TMDB for
// movies and TV and Jikan (MyAnimeList) for anime, and normalizes their
// results into one shape for the request surface.
package catalog

// Item is the normalized result shared by both providers. MediaKind is a
// plain string rather than model.MediaKind because TMDB multi-search also
// returns "person" entries, which are passed through untouched.
type Item struct {
	ID          int64   `json:"id"`
	MediaKind   string  `json:"mediaKind"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
}
