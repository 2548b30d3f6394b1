// Package content caches the brand and mission catalog. The cache is an
// explicit object owned by the application factory, with an explicit
// invalidate operation, rather than module-level state.
package content

import (
	"context"
	"sync"

	"github.com/mcoot/pointsync/internal/model"
)

// Fetcher loads the brand catalog from its source of truth.
// Returning (nil, nil) means no catalog is published.
type Fetcher func(ctx context.Context) ([]model.Brand, error)

// Cache memoizes one fetch of the brand catalog
type Cache struct {
	fetcher Fetcher

	mu     sync.Mutex
	brands []model.Brand
	loaded bool
}

// New creates a cache over the given fetcher
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
	}
}

// Get returns the cached catalog, fetching it on first use.
// When nothing is published the built-in default catalog is served.
func (c *Cache) Get(ctx context.Context) ([]model.Brand, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		brands, err := c.fetcher(ctx)
		if err != nil {
			return nil, err
		}
		if brands == nil {
			brands = DefaultBrands()
		}
		c.brands = brands
		c.loaded = true
	}

	brands := make([]model.Brand, len(c.brands))
	copy(brands, c.brands)
	return brands, nil
}

// Brand returns a single brand by id
func (c *Cache) Brand(ctx context.Context, id string) (model.Brand, error) {
	brands, err := c.Get(ctx)
	if err != nil {
		return model.Brand{}, err
	}
	for _, brand := range brands {
		if brand.ID == id {
			return brand, nil
		}
	}
	return model.Brand{}, model.ErrBrandNotFound
}

// Invalidate drops the cached catalog so the next Get refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brands = nil
	c.loaded = false
}

// DefaultBrands is the built-in catalog used when none is published
func DefaultBrands() []model.Brand {
	return []model.Brand{
		{
			ID:   "default",
			Name: "Daily Games",
			Missions: []model.Mission{
				{ID: "daily-word", Title: "Guess today's word", Points: 5},
				{ID: "daily-grid", Title: "Clear the grid", Points: 5},
				{ID: "daily-shot", Title: "Land the perfect shot", Points: 5},
			},
		},
	}
}
