package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pet-alert/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Si codec != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si codec == nil => modo dev: el header X-Debug-Owner-ID setea claims
//   (X-Debug-Role opcional, default registered).
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(codec auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar usuario sin codec
			if codec == nil {
				if raw := strings.TrimSpace(r.Header.Get("X-Debug-Owner-ID")); raw != "" {
					if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
						role := strings.TrimSpace(r.Header.Get("X-Debug-Role"))
						if role == "" {
							role = "registered"
						}
						claims := auth.Claims{OwnerID: id, Role: role}
						ctx := context.WithValue(r.Context(), claimsKey, claims)
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}

				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí para no acoplar. El handler decide 401/403.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// WithClaims inyecta claims directamente; lo usan los tests del router.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
