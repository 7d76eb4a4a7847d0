package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUsernameTaken is returned by CreateUser when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// CatalogMod is one normalized feed record ready for insertion: the mod row
// plus the resolved ids of its categories.
type CatalogMod struct {
	Mod         Mod
	CategoryIDs []int32
}

// InsertMods replaces the stored catalog with the given one. Mod rows are
// upserted (insert or full overwrite, keyed by id) in chunks of chunkSize,
// and the category junction table is cleared and rebuilt from scratch. The
// whole reconciliation runs in one transaction so concurrent readers never
// observe the momentarily empty junction table.
func (s *Store) InsertMods(mods []CatalogMod, chunkSize int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be greater than zero, got %d", chunkSize)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM mod_categories").Error; err != nil {
			return fmt.Errorf("failed to clear mod category junction table: %w", err)
		}

		rows := make([]Mod, 0, len(mods))
		for _, m := range mods {
			rows = append(rows, m.Mod)
		}
		if len(rows) > 0 {
			err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				CreateInBatches(rows, chunkSize).Error
			if err != nil {
				return fmt.Errorf("failed to upsert mods: %w", err)
			}
		}

		// Flatten all (mod, category) pairs. Duplicates across the input are
		// harmless: the insert ignores conflicts on the composite key.
		var junction []ModCategory
		for _, m := range mods {
			for _, categoryID := range m.CategoryIDs {
				junction = append(junction, ModCategory{ModID: m.Mod.ID, CategoryID: categoryID})
			}
		}
		if len(junction) > 0 {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				CreateInBatches(junction, chunkSize).Error
			if err != nil {
				return fmt.Errorf("failed to rebuild mod category junction table: %w", err)
			}
		}

		return nil
	})
}

// InsertCategories creates any category names not seen before. Existing names
// are left untouched; categories are never removed.
func (s *Store) InsertCategories(names []string) error {
	if len(names) == 0 {
		return nil
	}

	categories := make([]Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, Category{Name: name})
	}

	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to insert categories: %w", err)
	}
	return nil
}

// GetCategories returns every known category.
func (s *Store) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return categories, nil
}

// LatestImportTimestamp returns when the last successful import finished, or
// nil if no import has ever completed.
func (s *Store) LatestImportTimestamp() (*time.Time, error) {
	var ts ImportTimestamp
	err := s.db.First(&ts, importTimestampID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import timestamp: %w", err)
	}
	date := ts.Date
	return &date, nil
}

// SetImportTimestamp overwrites the import timestamp row.
func (s *Store) SetImportTimestamp(t time.Time) error {
	row := ImportTimestamp{ID: importTimestampID, Date: t.UTC()}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set import timestamp: %w", err)
	}
	return nil
}

// InsertRating stores a user's verdict on a mod. The insert is unconditional:
// an existing rating for the same (user, mod) pair is neither checked nor
// replaced.
func (s *Store) InsertRating(modID uuid.UUID, rating RatingValue, userID int32) error {
	row := ModRating{ModID: modID, UserID: userID, Rating: rating}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// GetRatedMods returns up to limit mods the user has rated with the given
// value. No category or flag filters apply and the order is unspecified.
func (s *Store) GetRatedMods(rating RatingValue, limit int, userID int32) ([]Mod, error) {
	var mods []Mod
	err := s.db.Model(&Mod{}).
		Distinct("mods.*").
		Joins("JOIN mod_ratings ON mod_ratings.mod_id = mods.id").
		Where("mod_ratings.user_id = ? AND mod_ratings.rating = ?", userID, rating).
		Limit(limit).
		Find(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query rated mods: %w", err)
	}
	return mods, nil
}

// CreateUser stores a new user with an already-hashed password.
func (s *Store) CreateUser(username, passwordHash string) (*User, error) {
	user := User{Username: username, PasswordHash: passwordHash}
	err := s.db.Create(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// FindUserByUsername returns the user with that name, or nil when none exists.
func (s *Store) FindUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// FindUserByID returns the user with that id, or nil when none exists.
func (s *Store) FindUserByID(id int32) (*User, error) {
	var user User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
