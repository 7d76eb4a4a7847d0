package server

import (
	"net/http"

	"go.uber.org/zap"
)

// handleRequestImport raises the import-requested flag; the scheduler's
// request checker performs the actual import. Requesting twice is idempotent.
func (s *Server) handleRequestImport(w http.ResponseWriter, r *http.Request) {
	s.log.Info("Mod reimport requested")
	s.scheduler.RequestImport()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "import requested"})
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	latest, err := s.store.LatestImportTimestamp()
	if err != nil {
		s.log.Errorw("Failed to query import timestamp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	requested, inProgress := s.scheduler.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"latest_import":      latest,
		"import_requested":   requested,
		"import_in_progress": inProgress,
	})
}
