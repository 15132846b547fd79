package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"podium/pkg/logger"
	"podium/pkg/model"
)

const CallerKey contextKey = "caller"

const adminRole = "admin"

// Authenticate verifies the bearer token and attaches the caller
// identity to the request context. Tokens are HS256, issued by the
// external auth service; claims: sub (caller id), name, role.
func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				log.Warn("Rejected invalid bearer token",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			callerID, _ := claims["sub"].(string)
			if callerID == "" {
				writeAuthError(w, http.StatusUnauthorized, "Token is missing the caller identity")
				return
			}

			name, _ := claims["name"].(string)
			role, _ := claims["role"].(string)

			caller := model.Caller{
				ID:    callerID,
				Name:  name,
				Admin: role == adminRole,
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards administrative routes. It runs after
// Authenticate, so a missing caller means the route was wired without
// the auth middleware and is treated as unauthorized.
func RequireAdmin(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		if !caller.Admin {
			writeAuthError(w, http.StatusForbidden, "Administrator privileges required")
			return
		}
		h(w, r, ps)
	}
}

func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(model.Caller)
	return caller, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
