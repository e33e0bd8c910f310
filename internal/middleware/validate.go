package middleware

import (
	"errors"
	"net/http"

	"github.com/cyberpulse/pulse/internal/errs"
	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the provided struct
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateQueryParams parses the query string into dst and validates it.
// On failure it writes the 400 or 422 response itself and returns ok=false;
// the handler should return err as-is and stop.
func (v *Validator) ValidateQueryParams(c *fiber.Ctx, dst interface{}) (ok bool, err error) {
	if perr := c.QueryParser(dst); perr != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
			"msg":   perr.Error(),
		})
	}

	if verr := v.Validate(dst); verr != nil {
		fields := make(map[string]string)
		var ve validator.ValidationErrors
		if errors.As(verr, &ve) {
			for _, fe := range ve {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Invalid query parameters",
			"fields": fields,
		})
	}
	return true, nil
}

// ErrorHandler handles errors in a consistent way
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	switch {
	case errs.IsNotFound(err):
		code = fiber.StatusNotFound
	case errs.IsRemote(err):
		code = fiber.StatusBadGateway
	default:
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
		"msg":   err.Error(),
	})
}
