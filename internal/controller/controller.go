package controller

import (
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func actorFrom(ctx *fiber.Ctx) (service.Actor, error) {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserId: userId, Role: serverutils.CurrentRole(ctx)}, nil
}

// optionalUUID reads a query parameter that may be absent.
func optionalUUID(ctx *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return &id, nil
}

// bind parses the body when present and validates it.
func bind(ctx *fiber.Ctx, req interface{}) error {
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	return serverutils.ValidateRequest(req)
}

func bindQuery(ctx *fiber.Ctx, query interface{}) error {
	if err := ctx.QueryParser(query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return serverutils.ValidateRequest(query)
}

func created[T any](ctx *fiber.Ctx, message string, data T) error {
	res := serverutils.SuccessResponse(message, data)
	res.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(res)
}
