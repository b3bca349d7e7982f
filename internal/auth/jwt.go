package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/config"
	"github.com/lmarques/goaltrack-be/internal/models"
)

// UserResolver looks the token subject up so that tokens for deleted users
// stop working even before they expire.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenService issues and verifies bearer tokens. It is stateless; the secret
// and TTL come from the configuration, not from process globals.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a TokenService from the application configuration.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}
}

// Issue creates a signed token whose subject is the username.
func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token and returns its subject. Malformed,
// tampered and expired tokens all come back as ErrUnauthenticated.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid token", apperrors.ErrUnauthenticated)
	}
	return claims.Subject, nil
}

type contextKey string

// userContextKey is the context key for the authenticated user.
const userContextKey = contextKey("currentUser")

// UserFrom returns the authenticated user stored in the request context.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// tokenFromRequest extracts the raw token string, preferring the
// Authorization header and falling back to the token cookie.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

// resolve turns a raw token into the user it belongs to.
func (s *TokenService) resolve(r *http.Request, users UserResolver) (*models.User, error) {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", apperrors.ErrUnauthenticated)
	}

	username, err := s.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := users.GetByUsername(r.Context(), username)
	if err != nil {
		// The subject may have deleted their account since the token was
		// issued; the token is no longer good for anything.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", apperrors.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

// Middleware protects routes that require an authenticated user.
func (s *TokenService) Middleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := s.resolve(r, users)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalMiddleware resolves an identity when one is presented but lets
// anonymous requests through. Invalid tokens are treated as anonymous.
func (s *TokenService) OptionalMiddleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := s.resolve(r, users)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
