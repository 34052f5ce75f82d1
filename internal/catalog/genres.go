package catalog

import (
	"sync"

	"github.com/rmansoor/watchdex/internal/model"
)

// GenreCache holds the three genre id-to-name mappings (movie, tv, anime).
// Each mapping is replaced wholesale under the lock, so readers see either
// the old map or the new one, never a half-written mix. The cache is
// advisory display metadata: an empty or stale mapping is tolerated.
type GenreCache struct {
	mu     sync.RWMutex
	byKind map[model.MediaKind]map[int]string
}

func NewGenreCache() *GenreCache {
	return &GenreCache{
		byKind: make(map[model.MediaKind]map[int]string, 3),
	}
}

// Replace swaps in a new mapping for the kind. The caller hands over
// ownership of the map and must not mutate it afterwards.
func (c *GenreCache) Replace(kind model.MediaKind, genres map[int]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKind[kind] = genres
}

// Lookup resolves a genre id to its display name. A miss, whether from an
// unknown id or an unpopulated mapping, is a normal outcome, not an error.
func (c *GenreCache) Lookup(kind model.MediaKind, id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.byKind[kind][id]
	return name, ok
}

// All returns a copy of the mapping for the kind, for genre listings.
func (c *GenreCache) All(kind model.MediaKind) map[int]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	genres := make(map[int]string, len(c.byKind[kind]))
	for id, name := range c.byKind[kind] {
		genres[id] = name
	}
	return genres
}
