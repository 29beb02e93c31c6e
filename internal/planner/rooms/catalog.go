package rooms

import (
	"context"
	"fmt"

	"github.com/stayconcierge/server/internal/planner/model"
)

// Catalog fronts the inventory with a semantic-first, structured-fallback
// lookup. A nil or empty semantic index silently degrades to SQL search.
type Catalog struct {
	store *Store
	index *SemanticIndex
}

func NewCatalog(store *Store, index *SemanticIndex) *Catalog {
	return &Catalog{store: store, index: index}
}

// FindRooms returns up to limit rooms for a city under a nightly price cap.
// The semantic index is tried first; on error or no hits the structured
// store answers instead, so room lookup never fails a planning run on
// embedding availability.
func (c *Catalog) FindRooms(ctx context.Context, city string, maxPrice float64, limit int) ([]model.RoomListing, error) {
	if c.index != nil && c.index.Len() > 0 {
		query := fmt.Sprintf("Best hotel or stay in %s for around %.0f KRW or less. Good location.", city, maxPrice)
		listings, err := c.index.Query(ctx, query, maxPrice, limit)
		if err == nil && len(listings) > 0 {
			return listings, nil
		}
	}
	return c.store.Search(ctx, SearchQuery{Location: city, MaxPrice: maxPrice, Limit: limit})
}

// Match runs a free-text lookup against the whole inventory, used to ground
// concierge answers. Without a semantic index it returns the cheapest
// active rooms instead.
func (c *Catalog) Match(ctx context.Context, text string, limit int) ([]model.RoomListing, error) {
	if c.index != nil && c.index.Len() > 0 {
		listings, err := c.index.Query(ctx, text, 0, limit)
		if err == nil && len(listings) > 0 {
			return listings, nil
		}
	}
	return c.store.Search(ctx, SearchQuery{Limit: limit})
}
