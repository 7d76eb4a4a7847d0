package catalog

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	window := 24 * time.Hour
	now := time.Date(2025, 3, 22, 12, 0, 0, 0, time.UTC)

	t.Run("no previous import", func(t *testing.T) {
		if !expired(nil, now, window) {
			t.Error("expired() should be true when no import has ever completed")
		}
	})

	t.Run("recent import", func(t *testing.T) {
		last := now.Add(-time.Hour)
		if expired(&last, now, window) {
			t.Error("expired() should be false one hour after an import")
		}
	})

	t.Run("exactly at the window boundary", func(t *testing.T) {
		last := now.Add(-window)
		if expired(&last, now, window) {
			t.Error("expired() should be false when exactly the window has passed")
		}
	})

	t.Run("just over the window boundary", func(t *testing.T) {
		last := now.Add(-window - time.Nanosecond)
		if !expired(&last, now, window) {
			t.Error("expired() should be true when more than the window has passed")
		}
	})

	t.Run("import in the future", func(t *testing.T) {
		last := now.Add(time.Hour)
		if expired(&last, now, window) {
			t.Error("expired() should be false for a future timestamp")
		}
	})
}
