package middleware

import (
	"quiz-digest/internal/domain"
	"quiz-digest/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RequestBodyKey holds the decoded and validated request body in fiber locals.
const RequestBodyKey = "requestBody"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateBody decodes the JSON body into a new T, validates it, and stores
// the *T under RequestBodyKey.
func ValidateBody[T any](vm *ValidationMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return domain.NewValidationError("Request body must be a JSON object").
				WithContext("body", err.Error())
		}
		if err := vm.validator.ValidateStruct(body); err != nil {
			return err
		}
		c.Locals(RequestBodyKey, body)
		return c.Next()
	}
}
