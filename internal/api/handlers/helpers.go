package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/queue"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

var validate = validator.New()

var errForbidden = errors.New("You do not have access to this resource")

func GetUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(middleware.UserLocalsKey).(models.User)
	return user
}

// requestContext carries the caller's token through to backend calls.
func requestContext(c *fiber.Ctx) context.Context {
	return service.WithAuthToken(c.Context(), GetUser(c).Token)
}

type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		slog.Info(err.Error())
		return &badRequestError{message: "Invalid request body"}
	}
	if err := validate.Struct(out); err != nil {
		slog.Info(err.Error())
		return &badRequestError{message: err.Error()}
	}
	return nil
}

// writeError maps domain errors onto HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	var vErr *models.ValidationError
	var netErr *models.NetworkError
	var badReq *badRequestError

	switch {
	case errors.As(err, &badReq):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": badReq.message})
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": vErr.Message,
			"kind":  vErr.Kind,
		})
	case errors.As(err, &netErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": netErr.Message,
		})
	case errors.Is(err, service.ErrSubmitInProgress), errors.Is(err, service.ErrComposerClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrNoVersion), errors.Is(err, service.ErrContentNotFound), errors.Is(err, queue.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSelectionFull), errors.Is(err, service.ErrMediaNotAvailable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUploadTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUploadTypeForbidden):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUploadEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}
