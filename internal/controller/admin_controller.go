package controller

import (
	"learnhub-be/internal/dto"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetRevenueSummary(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	RunReconciliation(ctx *fiber.Ctx) error
}

type adminController struct {
	revenue   service.IRevenueService
	reconcile service.IReconciliationService
	logger    logger.ILogger
}

func NewAdminController(revenue service.IRevenueService, reconcile service.IReconciliationService, log logger.ILogger) IAdminController {
	return &adminController{revenue: revenue, reconcile: reconcile, logger: log}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", serverutils.JwtMiddleware, serverutils.RequireRole(serverutils.RoleAdmin))
	h.Get("/revenue", c.GetRevenueSummary)
	h.Get("/logs", c.GetLogs)
	h.Post("/reconciliation", c.RunReconciliation)
}

func (c *adminController) GetRevenueSummary(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	courseId, err := optionalUUID(ctx, "course_id")
	if err != nil {
		return err
	}

	res, err := c.revenue.GetRevenueSummary(ctx.UserContext(), actor, courseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Revenue summary", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var query dto.LogListQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	logs, err := c.logger.GetLogs(query.Level, query.Limit, query.Offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs fetched", dto.LogListResponse{
		Logs:   logs,
		Limit:  query.Limit,
		Offset: query.Offset,
	}))
}

// RunReconciliation runs the scheduled checks on demand.
func (c *adminController) RunReconciliation(ctx *fiber.Ctx) error {
	expired, err := c.reconcile.ExpireStalePayments(ctx.UserContext())
	if err != nil {
		return err
	}
	orphans, err := c.reconcile.DetectMissingEnrollments(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reconciliation finished", fiber.Map{
		"expired_payments":    expired,
		"missing_enrollments": orphans,
	}))
}
