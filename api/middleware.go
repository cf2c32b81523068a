package api

import (
	"context"
	"net/http"

	"DueReportSaas/api/auth"
	"DueReportSaas/api/constants"
	"DueReportSaas/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	UserIDKey  contextKey = "user_id"
)

// SessionMiddleware admits requests whose user_id holds an active session.
// When pool is set the user is also checked against the users table.
func SessionMiddleware(pool *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := validation.ExtractUserID(r)
			if err != nil || userID == "" {
				RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
				return
			}

			session := validation.ValidateSession(userID)
			if session == nil {
				RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
				return
			}

			if pool != nil {
				if _, err := validation.PreValidateRequest(r.Context(), pool, userID); err != nil {
					LogError("pre-validation failed for %s: %v", userID, err)
					RespondWithError(w, http.StatusForbidden, constants.ErrUserInactive)
					return
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = context.WithValue(ctx, UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSessionFromCtx(ctx context.Context) *auth.UserSession {
	if s, ok := ctx.Value(SessionKey).(*auth.UserSession); ok {
		return s
	}
	return nil
}

func GetUserIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
