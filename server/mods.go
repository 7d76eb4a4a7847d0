package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"thunderstore-mod-browser/auth"
	"thunderstore-mod-browser/db"
)

// handleGetMods serves the authenticated user's unrated feed. An empty result
// is a 404, distinct from a database failure.
func (s *Server) handleGetMods(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	opts := db.DefaultModQueryOptions()
	query := r.URL.Query()

	opts.IgnoredCategories = query["excluded_category"]
	if v := query.Get("include_deprecated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_deprecated must be a boolean")
			return
		}
		opts.IncludeDeprecated = b
	}
	if v := query.Get("include_nsfw"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_nsfw must be a boolean")
			return
		}
		opts.IncludeNSFW = b
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		opts.Limit = limit
	}

	mods, err := s.store.GetMods(opts, userID)
	if err != nil {
		s.log.Errorw("Failed to query mod feed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if len(mods) == 0 {
		writeError(w, http.StatusNotFound, "no mods found")
		return
	}

	writeJSON(w, http.StatusOK, mods)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.GetCategories()
	if err != nil {
		s.log.Errorw("Failed to query categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
