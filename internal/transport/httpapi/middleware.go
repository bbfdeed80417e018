package httpapi

import (
	"context"
	"strings"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const principalKey = "principal"

// PrincipalResolver turns an authenticated user id into a principal with
// role and permitted groups. The role repository implements it.
type PrincipalResolver interface {
	PrincipalFor(ctx context.Context, userID string) (*model.Principal, error)
}

// Auth verifies the bearer token and resolves the caller's principal. The
// token only proves identity (sub claim); role and groups come from the
// role assignments, so a revoked role takes effect without re-issuing
// tokens.
func Auth(secret string, roles PrincipalResolver, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return Error(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			return Error(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return Error(c, fiber.StatusUnauthorized, "token is missing identity claims")
		}

		principal, err := roles.PrincipalFor(c.Context(), sub)
		if err != nil {
			logger.Error("Failed to resolve principal", zap.String("user_id", sub), zap.Error(err))
			return Error(c, fiber.StatusInternalServerError, "internal server error")
		}
		if principal == nil {
			return Error(c, fiber.StatusUnauthorized, "no role assigned")
		}

		c.Locals(principalKey, *principal)
		return c.Next()
	}
}

// RequireAdmin guards admin-only routes. Must run after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return Error(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !p.IsAdmin() {
			return Error(c, fiber.StatusForbidden, "administrator role required")
		}
		return c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal set by Auth.
func PrincipalFrom(c *fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(principalKey).(model.Principal)
	return p, ok
}
