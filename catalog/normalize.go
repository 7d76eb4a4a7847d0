package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"thunderstore-mod-browser/db"
	"thunderstore-mod-browser/thunderstore"
)

// placeholderDescription substitutes for mods whose feed entry carries no
// versions at all.
const placeholderDescription = "<No description available>"

// CategoryNames collects the distinct category names across the whole feed,
// sorted for deterministic inserts.
func CategoryNames(listings []thunderstore.PackageListing) []string {
	seen := make(map[string]struct{})
	for _, listing := range listings {
		for _, name := range listing.Categories {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize converts raw feed records into insertable catalog mods. A record
// with an unparsable UUID or date is dropped and logged; the rest of the
// batch continues. Lesser defects (no versions, unknown category name) are
// logged and degraded rather than dropped.
func Normalize(listings []thunderstore.PackageListing, categories []db.Category, log *zap.SugaredLogger) []db.CatalogMod {
	byName := make(map[string]db.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	mods := make([]db.CatalogMod, 0, len(listings))
	for _, listing := range listings {
		mod, err := normalizeListing(listing, byName, log)
		if err != nil {
			log.Warnw("Failed to convert mod to insertable, skipping record",
				zap.String("mod", listing.Name),
				zap.String("id", listing.UUID4),
				zap.Error(err),
			)
			continue
		}
		mods = append(mods, mod)
	}
	return mods
}

func normalizeListing(listing thunderstore.PackageListing, categories map[string]db.Category, log *zap.SugaredLogger) (db.CatalogMod, error) {
	id, err := uuid.Parse(listing.UUID4)
	if err != nil {
		return db.CatalogMod{}, fmt.Errorf("invalid uuid '%s': %w", listing.UUID4, err)
	}

	updated, err := time.Parse(time.RFC3339Nano, listing.DateUpdated)
	if err != nil {
		return db.CatalogMod{}, fmt.Errorf("invalid updated date '%s': %w", listing.DateUpdated, err)
	}

	// The feed orders versions most-recent-first; the first entry is
	// authoritative for description and icon. This ordering is feed contract,
	// not re-derived here.
	description := placeholderDescription
	iconURL := ""
	if len(listing.Versions) > 0 {
		description = listing.Versions[0].Description
		iconURL = listing.Versions[0].Icon
	} else {
		log.Errorw("Faulty feed entry: mod info found, but no versions of the mod found",
			zap.String("mod", listing.Name),
			zap.String("id", listing.UUID4),
		)
	}

	seen := make(map[int32]struct{})
	categoryIDs := make([]int32, 0, len(listing.Categories))
	for _, name := range listing.Categories {
		category, ok := categories[name]
		if !ok {
			log.Errorw("Faulty feed entry: can't find category id, dropping association",
				zap.String("mod", listing.Name),
				zap.String("id", listing.UUID4),
				zap.String("category", name),
			)
			continue
		}
		if _, dup := seen[category.ID]; dup {
			continue
		}
		seen[category.ID] = struct{}{}
		categoryIDs = append(categoryIDs, category.ID)
	}

	return db.CatalogMod{
		Mod: db.Mod{
			ID:          id,
			Name:        listing.Name,
			FullName:    listing.FullName,
			Owner:       listing.Owner,
			Description: description,
			IconURL:     iconURL,
			PackageURL:  listing.PackageURL,
			UpdatedDate: updated,
			Rating:      listing.RatingScore,
			Deprecated:  listing.IsDeprecated,
			NSFW:        listing.HasNSFWContent,
		},
		CategoryIDs: categoryIDs,
	}, nil
}
