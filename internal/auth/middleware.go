package auth

import (
	"context"
	"net/http"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// Middleware rejects requests without a valid, unrevoked access token and
// stores its claims in the request context.
func Middleware(tokens *TokenManager, revoker TokenRevoker, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteError(w, err, "unauthorized")
				return
			}

			claims, err := tokens.ParseAccessToken(raw)
			if err != nil {
				log.LogSecurity("INVALID_TOKEN", err.Error())
				utils.WriteError(w, err, "unauthorized")
				return
			}

			if revoker != nil {
				revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Warn("AUTH", "revocation check failed: "+err.Error())
				} else if revoked {
					utils.WriteError(w, apperror.NewUnauthorized("token revoked"), "unauthorized")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles must run after Middleware.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				utils.WriteError(w, apperror.NewUnauthorized("unauthorized"), "unauthorized")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				utils.WriteError(w, apperror.NewForbidden("forbidden"), "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// UserID returns the authenticated user's id, or "" outside Middleware.
func UserID(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
