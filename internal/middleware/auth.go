package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/favorites-api/internal/auth"
	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/respond"
	"github.com/ayush/favorites-api/internal/store"
)

// UserLookup resolves the owner of a session.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireAuth is middleware that validates the session cookie and
// injects the user id into the request context. Sessions of deleted or
// deactivated users are revoked on first use.
func RequireAuth(sessions auth.Sessions, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			userID, ok, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				logging.Error(r.Context()).Err(err).Msg("session lookup")
			}
			if err != nil || !ok {
				respond.Message(w, http.StatusUnauthorized, "session expired")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				logging.Error(r.Context()).Err(err).Int64("user_id", userID).Msg("session user lookup")
				respond.Message(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if err != nil || !user.IsActive {
				if err := sessions.Delete(r.Context(), cookie.Value); err != nil {
					logging.Warn(r.Context()).Err(err).Msg("delete session")
				}
				respond.Message(w, http.StatusUnauthorized, "account disabled")
				return
			}

			ctx := auth.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner rejects requests whose URL parameter param differs from the
// authenticated user. It must run after RequireAuth, at the endpoint.
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserID(r.Context())
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			target, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || target != userID {
				respond.Message(w, http.StatusForbidden, "cannot modify another user's favorites")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
