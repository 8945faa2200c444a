package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/marasteiner/flag-ding/models"
)

type contextKey string

const (
	teamIDContextKey contextKey = "team_id"
	roleContextKey   contextKey = "role"
)

// Authenticator validates Bearer tokens and puts the caller's identity into
// the request context.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(jwtSecret string) *Authenticator {
	return &Authenticator{secret: []byte(jwtSecret)}
}

// RequireAuth rejects requests without a valid token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing or malformed Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "invalid or expired token")
			return
		}

		teamIDClaim, ok := claims["team_id"].(float64)
		if !ok {
			unauthorized(w, "token is missing the team_id claim")
			return
		}
		roleClaim, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), teamIDContextKey, int(teamIDClaim))
		ctx = context.WithValue(ctx, roleContextKey, models.Role(roleClaim))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must be chained after RequireAuth.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) != models.RoleAdmin {
			forbidden(w, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TeamIDFromContext returns the authenticated account's id, 0 when the
// request was not authenticated.
func TeamIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(teamIDContextKey).(int)
	return id
}

func RoleFromContext(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleContextKey).(models.Role)
	return role
}

// ActorFromContext rebuilds the caller identity the service layer checks
// permissions against.
func ActorFromContext(ctx context.Context) *models.Team {
	id := TeamIDFromContext(ctx)
	if id == 0 {
		return nil
	}
	return &models.Team{ID: id, Role: RoleFromContext(ctx)}
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func forbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\n\t\"error\": %q\n}\n", message)
}
