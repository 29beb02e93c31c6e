// Package rooms holds the accommodation inventory: a structured store for
// price-bounded city searches and a semantic index for free-text matching.
package rooms

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stayconcierge/server/internal/planner/model"
)

// Room is the persisted accommodation record.
type Room struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"index"`
	Description string
	Price       float64 `gorm:"index"` // nightly, reference currency
	City        string  `gorm:"index"`
	Country     string  `gorm:"index"`
	Category    string
	Active      bool `gorm:"index"`
}

// Store is the gorm-backed room inventory.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (or creates) the sqlite inventory at path and migrates the
// schema. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open room db: %w", err)
	}
	if err := db.AutoMigrate(&Room{}); err != nil {
		return nil, fmt.Errorf("migrate room db: %w", err)
	}
	return &Store{db: db}, nil
}

// Seed inserts rooms, replacing rows with the same id. Used at startup and
// in tests.
func (s *Store) Seed(ctx context.Context, rooms []Room) error {
	if len(rooms) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Save(&rooms).Error; err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	return nil
}

// SearchQuery bounds a structured inventory lookup.
type SearchQuery struct {
	Location string  // matched fuzzily against city and country
	MaxPrice float64 // 0 disables the price cap
	Limit    int
}

// Search returns active rooms matching the location, cheapest first.
func (s *Store) Search(ctx context.Context, q SearchQuery) ([]model.RoomListing, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	tx := s.db.WithContext(ctx).Model(&Room{}).Where("active = ?", true)
	if loc := strings.TrimSpace(q.Location); loc != "" {
		pattern := "%" + strings.ToLower(loc) + "%"
		tx = tx.Where("LOWER(city) LIKE ? OR LOWER(country) LIKE ?", pattern, pattern)
	}
	if q.MaxPrice > 0 {
		tx = tx.Where("price <= ?", q.MaxPrice)
	}

	var rows []Room
	if err := tx.Order("price ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	out := make([]model.RoomListing, 0, len(rows))
	for _, r := range rows {
		out = append(out, toListing(r))
	}
	return out, nil
}

// All returns every active room. The semantic index is built from this set.
func (s *Store) All(ctx context.Context) ([]Room, error) {
	var rows []Room
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rows, nil
}

func toListing(r Room) model.RoomListing {
	return model.RoomListing{
		ID:       r.ID,
		Title:    r.Title,
		Price:    r.Price,
		City:     r.City,
		Country:  r.Country,
		Category: r.Category,
	}
}
