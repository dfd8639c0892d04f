package middleware

import (
	"strings"

	"examdrill/internal/logger"
	"examdrill/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// UserIDKey is the context key under which the authenticated
	// user's ID is stored.
	UserIDKey = "userID"

	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
)

// Protected returns a middleware that requires a valid access token.
// On success the user ID is stored in c.Locals(UserIDKey).
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		appLogger := logger.Get()
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header must be a bearer token",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			appLogger.Debug("Token validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token type",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// OptionalAuth populates c.Locals(UserIDKey) when a valid access token
// is present but lets the request through either way.
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Next()
		}
		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err == nil && claims.TokenType == "access" {
			c.Locals(UserIDKey, claims.UserID)
		}
		return c.Next()
	}
}
