package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey struct{}

var userIDKey contextKey

// adminUsername is the account allowed through RequireAdmin.
// TODO: replace the hardcoded name with a role column on users.
const adminUsername = "admin"

// RequireAuth rejects requests without a valid Bearer token and stores the
// authenticated user id in the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			unauthorized(w, "unauthorized")
			return
		}

		claims, err := s.parseToken(tokenString)
		if err != nil {
			unauthorized(w, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated users other than the admin account. It
// must sit inside RequireAuth, which provides the user id.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			unauthorized(w, "unauthorized")
			return
		}

		user, err := s.store.FindUserByID(id)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database error"}`))
			return
		}
		if user == nil || user.Username != adminUsername {
			unauthorized(w, "You don't have permission to use this")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(userIDKey).(int32)
	return id, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
