package serverutils

import (
	"errors"

	"learnhub-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindValidation, apperror.KindConflict:
		return fiber.StatusBadRequest
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindPaymentRequired:
		return fiber.StatusPaymentRequired
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders any error returned from a handler as the standard envelope.
// Internal and upstream failures never leak their cause to the client.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
	}

	appErr, ok := apperror.As(err)
	if !ok {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}

	status := statusFor(appErr.Kind)
	message := appErr.Message
	if status == fiber.StatusInternalServerError && message == "" {
		message = "Internal server error"
	}

	return ctx.Status(status).JSON(DetailedErrorResponse(status, message, appErr.Kind.String(), appErr.Data))
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}
