// Package auth validates bearer tokens and resolves the caller's clearance
// context. Token issuance is an identity provider's concern; this boundary
// only verifies signatures and maps claims onto the unified role and
// clearance enumerations.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pandora/internal/clearance"
	id "pandora/pkg/domain"
	"pandora/pkg/requestcontext"
)

type contextKeyClearance struct{}

// Claims is the token payload pandora understands. Role and clearance are
// carried as strings and re-validated on every request; a token minted
// before a role change does not widen what the engine will accept.
type Claims struct {
	OrgID     string `json:"org_id"`
	Role      string `json:"role"`
	Clearance string `json:"clearance"`
	jwt.RegisteredClaims
}

// Validator verifies HMAC-signed access tokens.
type Validator struct {
	signingKey []byte
}

// NewValidator creates a token validator. Panics on an empty key - fail fast
// at startup.
func NewValidator(signingKey string) *Validator {
	if signingKey == "" {
		panic("auth.NewValidator: signing key is required")
	}
	return &Validator{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a token, returning the clearance context
// its claims resolve to.
func (v *Validator) ValidateToken(tokenString string) (clearance.Context, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return clearance.Context{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return clearance.Context{}, fmt.Errorf("invalid token")
	}
	return resolveClaims(&claims)
}

// resolveClaims maps raw claim strings onto typed IDs and enumerations.
func resolveClaims(claims *Claims) (clearance.Context, error) {
	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return clearance.Context{}, fmt.Errorf("invalid subject: %w", err)
	}
	orgID, err := id.ParseOrgID(claims.OrgID)
	if err != nil {
		return clearance.Context{}, fmt.Errorf("invalid org_id: %w", err)
	}
	role, err := clearance.ParseRole(claims.Role)
	if err != nil {
		return clearance.Context{}, fmt.Errorf("invalid role: %w", err)
	}
	level, err := clearance.ParseLevel(claims.Clearance)
	if err != nil {
		return clearance.Context{}, fmt.Errorf("invalid clearance: %w", err)
	}

	cc := clearance.Context{UserID: userID, OrgID: orgID, Role: role, Clearance: level}
	if !cc.Valid() {
		return clearance.Context{}, fmt.Errorf("incomplete claims")
	}
	return cc, nil
}

// writeJSONError writes a JSON error response with the given status code.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth returns middleware that validates bearer tokens and stores the
// resolved clearance context for handlers.
func RequireAuth(validator *Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			cc, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClearance(ctx, cc)))
		})
	}
}

// WithClearance stores a clearance context. Exported for handler tests.
func WithClearance(ctx context.Context, cc clearance.Context) context.Context {
	return context.WithValue(ctx, contextKeyClearance{}, cc)
}

// GetClearance returns the caller's clearance context, or a zero value when
// the request did not pass RequireAuth.
func GetClearance(ctx context.Context) clearance.Context {
	if cc, ok := ctx.Value(contextKeyClearance{}).(clearance.Context); ok {
		return cc
	}
	return clearance.Context{}
}
