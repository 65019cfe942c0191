package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"highspirit-app-go/internal/config"
	userdomain "highspirit-app-go/internal/domain/user"
	"highspirit-app-go/pkg/logger"
)

// mockUserID is the fixed subject injected when authentication is skipped.
const mockUserID = "00000000-0000-0000-0000-000000000001"

type TokenParser interface {
	ParseToken(token string) (userdomain.Claims, error)
}

type SessionAuth struct {
	parser     TokenParser
	cookieName string
	skipAuth   bool
	mockUser   User
	log        logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID       string
	Username string
	Role     userdomain.Role
}

func NewSessionAuth(cfg config.AuthConfig, parser TokenParser, log logger.Logger) *SessionAuth {
	return &SessionAuth{
		parser:     parser,
		cookieName: cfg.CookieName,
		skipAuth:   cfg.SkipAuth,
		mockUser: User{
			ID:       mockUserID,
			Username: strings.TrimSpace(cfg.MockUsername),
			Role:     userdomain.RoleOwner,
		},
		log: log,
	}
}

// Middleware accepts a bearer token or the session cookie, in that order.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			ctx := WithUser(r.Context(), a.mockUser)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok && a.cookieName != "" {
			if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
				token, ok = cookie.Value, true
			}
		}
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.parser.ParseToken(token)
		if err != nil {
			a.log.Debug("auth: token rejected", "err", err.Error(), "path", r.URL.Path)
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), User{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
