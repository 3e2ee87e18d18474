package auth

import (
	"errors"
	"fmt"

	"github.com/andemamma/collection-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when token parsing or validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingClaims is returned when required claims are absent
	ErrMissingClaims = errors.New("token missing required claims")
)

// Claims is the token payload issued by the main backend
type Claims struct {
	DisplayName string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validator verifies HS256 bearer tokens
type Validator struct {
	secret []byte
	issuer string
}

// NewValidator creates a token validator from config
func NewValidator(cfg *config.AuthConfig) *Validator {
	return &Validator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Validate parses and verifies a raw token string and returns the user it
// identifies
func (v *Validator) Validate(raw string) (*UserContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingClaims
	}

	return &UserContext{
		UserID:      claims.Subject,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}, nil
}
