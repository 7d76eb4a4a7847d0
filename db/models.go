package db

import (
	"time"

	"github.com/google/uuid"
)

// Mod is one catalog entry. The row is replaced wholesale on every import:
// either inserted fresh or fully overwritten, keyed by the feed's UUID.
type Mod struct {
	ID          uuid.UUID `gorm:"primaryKey;type:text" json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       string    `json:"owner"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	PackageURL  string    `json:"package_url"`
	UpdatedDate time.Time `gorm:"index" json:"updated_date"` // Source-supplied, not import time
	Rating      int64     `json:"rating_score"`
	Deprecated  bool      `json:"deprecated"`
	NSFW        bool      `json:"nsfw"`
}

// Category names are created lazily on first sighting during an import and
// never deleted or renamed afterwards.
type Category struct {
	ID   int32  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`
}

// ModCategory is the Mod<->Category junction. Its contents are exactly the
// associations of the most recent successful import; the import clears and
// rebuilds it rather than diffing.
type ModCategory struct {
	ModID      uuid.UUID `gorm:"primaryKey;type:text"`
	CategoryID int32     `gorm:"primaryKey;autoIncrement:false"`
}

// ImportTimestamp records when the last successful import finished. At most
// one logical row exists and it is overwritten, never appended.
type ImportTimestamp struct {
	ID   int32 `gorm:"primaryKey;autoIncrement:false"`
	Date time.Time
}

// importTimestampID is the fixed key of the single timestamp row.
const importTimestampID int32 = 1

// RatingValue is a user's verdict on a mod.
type RatingValue string

const (
	RatingLike    RatingValue = "Like"
	RatingDislike RatingValue = "Dislike"
)

// ModRating links a user's verdict to a mod. Inserts are unconditional, so
// re-rating produces additional rows; the feed query excludes a mod as soon
// as any row exists for the (user, mod) pair.
type ModRating struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	ModID     uuid.UUID   `gorm:"type:text;index" json:"mod_id"`
	UserID    int32       `gorm:"index" json:"user_id"`
	Rating    RatingValue `json:"rating"`
	CreatedAt time.Time   `json:"created_at"`
}

// User accounts exist only so ratings have an owner.
type User struct {
	ID           int32  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string
}
