package catalog

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"thunderstore-mod-browser/config"
	"thunderstore-mod-browser/db"
	"thunderstore-mod-browser/thunderstore"
)

// Importer runs one end-to-end catalog import: fetch, cache, normalize,
// store, timestamp. It performs no coordination of its own; the Scheduler
// guarantees at most one Run is in flight.
type Importer struct {
	store     *db.Store
	client    *thunderstore.Client
	cache     *thunderstore.Cache
	mode      config.RefreshMode
	window    time.Duration
	chunkSize int
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewImporter wires the import pipeline from its collaborators.
func NewImporter(store *db.Store, client *thunderstore.Client, cache *thunderstore.Cache, cfg config.Config, log *zap.SugaredLogger) *Importer {
	return &Importer{
		store:     store,
		client:    client,
		cache:     cache,
		mode:      cfg.RefreshMode,
		window:    cfg.ImportInterval,
		chunkSize: cfg.SQLChunkSize,
		log:       log,
		now:       time.Now,
	}
}

// Expired evaluates the refresh policy against the stored import timestamp.
// With refresh disabled it is always false.
func (i *Importer) Expired() (bool, error) {
	if i.mode == config.RefreshNone {
		return false, nil
	}

	last, err := i.store.LatestImportTimestamp()
	if err != nil {
		return false, err
	}
	return expired(last, i.now().UTC(), i.window), nil
}

// ImportIfNeeded runs the pipeline only when the catalog has expired.
func (i *Importer) ImportIfNeeded() error {
	due, err := i.Expired()
	if err != nil {
		return err
	}
	if !due {
		return nil
	}
	return i.Run()
}

// Run executes the full pipeline unconditionally (modulo the refresh mode's
// network policy). Any stage failure aborts the remaining stages; the import
// timestamp is only written after everything else succeeded, so a failed
// import never looks fresh.
func (i *Importer) Run() error {
	if i.mode == config.RefreshNone {
		// operator has disabled syncing
		return nil
	}

	if i.mode.Downloads() {
		i.log.Info("Starting mods feed download")
		raw, err := i.client.FetchPackageList()
		if err != nil {
			return fmt.Errorf("feed download failed: %w", err)
		}

		i.log.Debugw("Saving mods feed to cache", zap.String("path", i.cache.Path))
		if err := i.cache.Save(raw); err != nil {
			return fmt.Errorf("caching feed failed: %w", err)
		}
	}

	listings, err := i.cache.Load()
	if err != nil {
		return fmt.Errorf("loading cached feed failed: %w", err)
	}

	if err := i.saveToStore(listings); err != nil {
		return err
	}

	return i.store.SetImportTimestamp(i.now().UTC())
}

func (i *Importer) saveToStore(listings []thunderstore.PackageListing) error {
	names := CategoryNames(listings)
	i.log.Infow("Saving mod categories", zap.Int("count", len(names)))
	if err := i.store.InsertCategories(names); err != nil {
		return err
	}

	// Resolve names against a fresh read so ids assigned by this very import
	// are visible to the normalizer.
	categories, err := i.store.GetCategories()
	if err != nil {
		return err
	}

	mods := Normalize(listings, categories, i.log)
	i.log.Infow("Saving mods", zap.Int("count", len(mods)))
	return i.store.InsertMods(mods, i.chunkSize)
}
