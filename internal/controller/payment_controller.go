package controller

import (
	"learnhub-be/internal/dto"
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	CreatePaymentIntent(ctx *fiber.Ctx) error
	ProcessPayment(ctx *fiber.Ctx) error
	ConfirmBankTransferByUser(ctx *fiber.Ctx) error
	GatewayReturn(ctx *fiber.Ctx) error
	GetMyPayments(ctx *fiber.Ctx) error
	GetPaymentDetail(ctx *fiber.Ctx) error
	RequestRefund(ctx *fiber.Ctx) error
	ConfirmPayment(ctx *fiber.Ctx) error
	GetCreatorPayments(ctx *fiber.Ctx) error
	GetRevenueSummary(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	revenue service.IRevenueService
}

func NewPaymentController(service service.IPaymentService, revenue service.IRevenueService) IPaymentController {
	return &paymentController{service: service, revenue: revenue}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware

	// Browser redirect from the gateway, authenticated by its signature.
	r.Get("/payments/vnpay-return", c.GatewayReturn)

	r.Post("/courses/:courseId/payment-intent", auth, c.CreatePaymentIntent)
	r.Post("/courses/:courseId/process-payment", auth, c.ProcessPayment)
	r.Post("/courses/:courseId/confirm-bank-transfer", auth, c.ConfirmBankTransferByUser)
	r.Get("/my-payments", auth, c.GetMyPayments)
	r.Get("/payments/:paymentId", auth, c.GetPaymentDetail)
	r.Post("/payments/:paymentId/refund", auth, c.RequestRefund)
	r.Post("/payments/:paymentId/confirm-bank-transfer", auth, serverutils.RequireRole(serverutils.RoleAdmin), c.ConfirmPayment)

	creator := r.Group("/creator", auth, serverutils.RequireRole(serverutils.RoleCreator, serverutils.RoleAdmin))
	creator.Get("/payments", c.GetCreatorPayments)
	creator.Post("/payments/:paymentId/confirm", c.ConfirmPayment)
	creator.Get("/revenue", c.GetRevenueSummary)
}

func (c *paymentController) CreatePaymentIntent(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}
	var req dto.PaymentIntentRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreatePaymentIntent(ctx.UserContext(), userId, courseId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment intent created", res))
}

func (c *paymentController) ProcessPayment(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}
	var req dto.ProcessPaymentRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ProcessPayment(ctx.UserContext(), userId, courseId, &req, ctx.IP())
	if err != nil {
		return err
	}
	if res.Enrollment != nil {
		return created(ctx, "Payment completed", res)
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment initiated", res))
}

func (c *paymentController) ConfirmBankTransferByUser(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}
	var req dto.ConfirmBankTransferRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ConfirmBankTransferByUser(ctx.UserContext(), userId, courseId, &req)
	if err != nil {
		return err
	}
	return created(ctx, "Transfer recorded, waiting for confirmation", res)
}

// GatewayReturn answers 400 when the gateway reports a declined payment.
func (c *paymentController) GatewayReturn(ctx *fiber.Ctx) error {
	res, err := c.service.HandleGatewayReturn(ctx.UserContext(), ctx.Queries())
	if err != nil {
		return err
	}
	if !res.Success {
		out := serverutils.ErrorResponse(fiber.StatusBadRequest, res.Message)
		out.Data = res
		return ctx.Status(fiber.StatusBadRequest).JSON(out)
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *paymentController) GetMyPayments(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.PaymentListQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.service.GetMyPayments(ctx.UserContext(), userId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.PaginatedResponse("Payments fetched", res.Payments, serverutils.NewPaginationMeta(res.Page, res.Limit, res.Total)))
}

func (c *paymentController) GetPaymentDetail(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	paymentId, err := serverutils.ParamUUID(ctx, "paymentId")
	if err != nil {
		return err
	}

	res, err := c.service.GetPaymentDetail(ctx.UserContext(), userId, paymentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment fetched", res))
}

func (c *paymentController) RequestRefund(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	paymentId, err := serverutils.ParamUUID(ctx, "paymentId")
	if err != nil {
		return err
	}
	var req dto.RefundRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.RequestRefund(ctx.UserContext(), userId, paymentId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment refunded", res))
}

// ConfirmPayment serves both the admin and the creator route; the service checks ownership.
func (c *paymentController) ConfirmPayment(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	paymentId, err := serverutils.ParamUUID(ctx, "paymentId")
	if err != nil {
		return err
	}
	var req dto.ConfirmPaymentRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ConfirmPayment(ctx.UserContext(), actor, paymentId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment confirmed", res))
}

func (c *paymentController) GetCreatorPayments(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.PaymentListQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.service.GetCreatorPayments(ctx.UserContext(), userId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.PaginatedResponse("Payments fetched", res.Payments, serverutils.NewPaginationMeta(res.Page, res.Limit, res.Total)))
}

func (c *paymentController) GetRevenueSummary(ctx *fiber.Ctx) error {
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
