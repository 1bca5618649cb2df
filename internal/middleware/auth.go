package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const UserContextKey = contextKey("user")

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserContextKey).(string)
	return id
}

// WithUserID returns ctx carrying userID as the authenticated user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserContextKey, userID)
}

func bearerToken(r *http.Request) (token string, present bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return parts[1], true
}

func authenticate(verifier *util.Verifier, logger zerolog.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, present := bearerToken(r)
			if !present {
				if required {
					logger.Debug().Msg("Authorization header missing")
					http.Error(w, "Authorization header missing", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if tokenString == "" {
				logger.Warn().Msg("Invalid authorization header")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := verifier.Validate(tokenString)
			if err != nil {
				logger.Warn().Err(err).Msg("Invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

// AuthMiddleware rejects requests without a valid Supabase access token.
func AuthMiddleware(verifier *util.Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return authenticate(verifier, logger, true)
}

// OptionalAuthMiddleware lets anonymous requests through but still rejects a
// bad token.
func OptionalAuthMiddleware(verifier *util.Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return authenticate(verifier, logger, false)
}
