package db

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the shared GORM connection pool. It is safe for concurrent use
// by the serving layer and the single in-flight import.
type Store struct {
	db *gorm.DB
}

// Open opens the SQLite database at dbPath and migrates the schema.
func Open(dbPath string) (*Store, error) {
	// Configure GORM logger
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard log writer (os.Stdout)
		gormlogger.Config{
			SlowThreshold:             time.Second,     // Slow SQL threshold
			LogLevel:                  gormlogger.Warn, // Log level (Warn, Error, Info)
			IgnoreRecordNotFoundError: true,            // Ignore ErrRecordNotFound error
			ParameterizedQueries:      false,           // Log SQL queries with params
			Colorful:                  true,            // Enable color
		},
	)

	gormDB, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger:         newLogger, // Use the configured logger
		TranslateError: true,      // Map driver errors to gorm sentinels (ErrDuplicatedKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	store := &Store{db: gormDB}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&Mod{},
		&Category{},
		&ModCategory{},
		&ImportTimestamp{},
		&ModRating{},
		&User{},
	)
}
