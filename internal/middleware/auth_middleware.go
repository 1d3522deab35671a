package middleware

import (
	"strings"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"
	"quiz-digest/internal/logger"
	"quiz-digest/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:    string(domain.CodeUnauthorized),
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}

// Protected requires a valid bearer token and sets the caller's user ID in locals.
func Protected(identityService service.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "Token is empty")
		}

		claims, err := identityService.VerifyToken(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Token verification failed", zap.Error(err), zap.String("request_id", RequestIDFrom(c)))
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserIDKey, claims.UserID())
		return c.Next()
	}
}

// UserIDFrom returns the user ID set by Protected, or "".
func UserIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
