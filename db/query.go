package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModQueryOptions are the recognized knobs of the mod feed query. The
// per-user rating exclusion is not an option: it always applies.
type ModQueryOptions struct {
	IgnoredCategories []string
	IncludeDeprecated bool
	IncludeNSFW       bool
	Limit             int
}

// DefaultModQueryOptions mirrors a fresh user's settings: no excluded
// categories, no deprecated mods, no nsfw mods, 20 results.
func DefaultModQueryOptions() ModQueryOptions {
	return ModQueryOptions{Limit: 20}
}

// ModListing is a feed entry: the mod row plus its category names.
type ModListing struct {
	Mod
	Categories []string `json:"categories"`
}

// GetMods returns the user's unrated feed: mods matching the options the
// user has not rated yet, most recently updated first. Each recognized
// option contributes one predicate fragment; absent options contribute
// nothing.
func (s *Store) GetMods(opts ModQueryOptions, userID int32) ([]ModListing, error) {
	q := s.db.Model(&Mod{})

	if len(opts.IgnoredCategories) > 0 {
		q = q.Where("mods.id NOT IN (?)", s.modsInCategories(opts.IgnoredCategories))
	}
	if !opts.IncludeDeprecated {
		q = q.Where("mods.deprecated = ?", false)
	}
	if !opts.IncludeNSFW {
		q = q.Where("mods.nsfw = ?", false)
	}

	// Mandatory: a mod the user already rated never reappears in the feed.
	q = q.Where("mods.id NOT IN (?)", s.modsRatedBy(userID))

	var mods []Mod
	err := q.Order("mods.updated_date DESC").Limit(opts.Limit).Find(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query mods: %w", err)
	}

	return s.attachCategories(mods)
}

// modsInCategories is the subquery of mod ids associated with any of the
// given category names.
func (s *Store) modsInCategories(names []string) *gorm.DB {
	return s.db.Model(&ModCategory{}).
		Select("mod_categories.mod_id").
		Joins("JOIN categories ON categories.id = mod_categories.category_id").
		Where("categories.name IN ?", names)
}

// modsRatedBy is the subquery of mod ids the user has rated, with either
// value.
func (s *Store) modsRatedBy(userID int32) *gorm.DB {
	return s.db.Model(&ModRating{}).
		Select("mod_ratings.mod_id").
		Where("mod_ratings.user_id = ?", userID)
}

func (s *Store) attachCategories(mods []Mod) ([]ModListing, error) {
	listings := make([]ModListing, len(mods))
	for i, m := range mods {
		listings[i] = ModListing{Mod: m, Categories: []string{}}
	}
	if len(mods) == 0 {
		return listings, nil
	}

	ids := make([]uuid.UUID, len(mods))
	index := make(map[uuid.UUID]int, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
		index[m.ID] = i
	}

	var rows []struct {
		ModID uuid.UUID
		Name  string
	}
	err := s.db.Table("mod_categories").
		Select("mod_categories.mod_id, categories.name").
		Joins("JOIN categories ON categories.id = mod_categories.category_id").
		Where("mod_categories.mod_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query mod categories: %w", err)
	}

	for _, row := range rows {
		i := index[row.ModID]
		listings[i].Categories = append(listings[i].Categories, row.Name)
	}
	return listings, nil
}
