// Package auth resolves the owner of a request from its bearer token.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Config holds signer verification parameters.
type Config struct {
	Secret string
	// Issuer is checked when non-empty.
	Issuer string
}

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

const ownerKey = "auth.owner_id"

// Parse validates an HS256 token and returns the owner id it carries
// (the user_id claim, or sub when user_id is absent).
func Parse(token string, cfg Config) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}

	owner := claimString(claims["user_id"])
	if owner == "" {
		owner, _ = claims.GetSubject()
	}
	if owner == "" {
		return "", fmt.Errorf("%w: no user_id or sub claim", ErrInvalidToken)
	}
	return owner, nil
}

func claimString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		// Numeric user ids arrive as JSON numbers.
		return fmt.Sprintf("%.0f", id)
	}
	return ""
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved owner id for handlers.
func Middleware(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, ErrMissingToken.Error())
		}
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidToken.Error())
		}

		owner, err := Parse(header[len("Bearer "):], cfg)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(ownerKey, owner)
		return c.Next()
	}
}

// OwnerID returns the owner id stored by Middleware.
func OwnerID(c *fiber.Ctx) (string, bool) {
	owner, ok := c.Locals(ownerKey).(string)
	return owner, ok && owner != ""
}
