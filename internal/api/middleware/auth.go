package middleware

import (
	"context"
	"net/http"

	"catalog_portal/internal/common"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	SnapshotCtxKey contextKey = "userSnapshot"
)

// Authenticator requires a token already verified by jwtauth.Verifier.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.MsgUnauthorized)
			return
		}

		snapshot, err := security.SnapshotFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.MsgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, snapshot.ID)
		ctx = context.WithValue(ctx, SnapshotCtxKey, snapshot)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// GetSnapshotFromContext returns the user snapshot embedded in the token.
func GetSnapshotFromContext(ctx context.Context) (model.UserSnapshot, bool) {
	s, ok := ctx.Value(SnapshotCtxKey).(model.UserSnapshot)
	return s, ok
}
