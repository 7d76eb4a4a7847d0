package catalog

import "time"

// expired reports whether a new import pass is owed: either no import has
// ever completed, or the last one is older than the expiration window. The
// clock is a parameter so the predicate never reads wall-clock state itself.
func expired(lastImport *time.Time, now time.Time, window time.Duration) bool {
	if lastImport == nil {
		// no previous import recorded -> this is the first run
		return true
	}
	return now.Sub(*lastImport) > window
}
