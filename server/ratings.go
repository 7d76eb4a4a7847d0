package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"thunderstore-mod-browser/auth"
	"thunderstore-mod-browser/db"
)

type ratingBody struct {
	ModID  string `json:"mod_id"`
	Rating string `json:"rating"`
}

func (s *Server) handlePostRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body ratingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modID, err := uuid.Parse(body.ModID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad mod uuid")
		return
	}

	rating, err := parseRating(body.Rating)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.InsertRating(modID, rating, userID); err != nil {
		s.log.Errorw("Failed to insert rating", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "rating saved"})
}

func (s *Server) handleGetRatedMods(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rating := db.RatingLike
	if v := r.URL.Query().Get("rating"); v != "" {
		parsed, err := parseRating(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rating = parsed
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsed
	}

	mods, err := s.store.GetRatedMods(rating, limit, userID)
	if err != nil {
		s.log.Errorw("Failed to query rated mods", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, mods)
}

func parseRating(v string) (db.RatingValue, error) {
	switch strings.ToLower(v) {
	case "like":
		return db.RatingLike, nil
	case "dislike":
		return db.RatingDislike, nil
	default:
		return "", fmt.Errorf("rating must be Like or Dislike, got '%s'", v)
	}
}
