package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andemamma/collection-api/internal/config"
	"go.uber.org/zap"
)

// Middleware enforces bearer-token authentication when enabled
type Middleware struct {
	cfg       *config.AuthConfig
	validator *Validator
	logger    *zap.Logger
}

// NewMiddleware creates the authentication middleware
func NewMiddleware(cfg *config.AuthConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		cfg:       cfg,
		validator: NewValidator(cfg),
		logger:    logger,
	}
}

// Authenticate validates the Authorization header and attaches the user to
// the request context. When auth is disabled (local development) requests
// pass through anonymously.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			m.unauthorized(w, "Missing bearer token")
			return
		}

		user, err := m.validator.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.logger.Debug("token validation failed", zap.Error(err))
			m.unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), user)))
	})
}

func (m *Middleware) unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"type":   "unauthorized",
		"title":  "Unauthorized",
		"status": http.StatusUnauthorized,
		"detail": detail,
	})
}
