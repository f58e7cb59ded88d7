package handlers

import (
	"errors"
	"fmt"

	"songvault/internal/repositories"
	"songvault/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler maps errors returned by handlers to the {message} envelope.
// Anything unclassified is a 500 whose message is surfaced and whose details
// are logged.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var (
			fiberErr      *fiber.Error
			validationErr validator.ValidationErrors
			serviceErr    *services.ValidationError
		)

		switch {
		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})

		case errors.As(err, &validationErr):
			errorMessages := make(map[string]string)
			for _, e := range validationErr {
				errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  errorMessages,
			})

		case errors.As(err, &serviceErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": serviceErr.Message})

		case errors.Is(err, repositories.ErrDuplicateEmail):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "email already registered"})

		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})

		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		}

		log.Error("Unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

// bind parses the JSON body into out and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validate.Struct(out)
}
