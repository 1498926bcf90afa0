package controller

import (
	"learnhub-be/internal/dto"
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICouponController interface {
	RegisterRoutes(r fiber.Router)
	GetActiveCoupons(ctx *fiber.Ctx) error
	ValidateCoupon(ctx *fiber.Ctx) error
	ListCoupons(ctx *fiber.Ctx) error
	CreateCoupon(ctx *fiber.Ctx) error
	UpdateCoupon(ctx *fiber.Ctx) error
	DeactivateCoupon(ctx *fiber.Ctx) error
}

type couponController struct {
	service service.ICouponService
}

func NewCouponController(service service.ICouponService) ICouponController {
	return &couponController{service: service}
}

func (c *couponController) RegisterRoutes(r fiber.Router) {
	r.Get("/coupons/active", c.GetActiveCoupons)
	r.Get("/coupons/:code/validate", serverutils.JwtMiddleware, c.ValidateCoupon)

	admin := r.Group("/admin/coupons", serverutils.JwtMiddleware, serverutils.RequireRole(serverutils.RoleAdmin))
	admin.Get("/", c.ListCoupons)
	admin.Post("/", c.CreateCoupon)
	admin.Put("/:couponId", c.UpdateCoupon)
	admin.Delete("/:couponId", c.DeactivateCoupon)
}

func (c *couponController) GetActiveCoupons(ctx *fiber.Ctx) error {
	res, err := c.service.GetActiveCoupons(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Active coupons", res))
}

// ValidateCoupon reports an unusable coupon as valid=false rather than an error.
func (c *couponController) ValidateCoupon(ctx *fiber.Ctx) error {
	var query dto.ValidateCouponQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.service.ValidateCoupon(ctx.UserContext(), ctx.Params("code"), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coupon checked", res))
}

func (c *couponController) ListCoupons(ctx *fiber.Ctx) error {
	var query dto.CouponListQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.service.ListCoupons(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.PaginatedResponse("Coupons fetched", res.Coupons, serverutils.NewPaginationMeta(res.Page, res.Limit, res.Total)))
}

func (c *couponController) CreateCoupon(ctx *fiber.Ctx) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateCouponRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateCoupon(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return created(ctx, "Coupon created", res)
}

func (c *couponController) UpdateCoupon(ctx *fiber.Ctx) error {
	couponId, err := serverutils.ParamUUID(ctx, "couponId")
	if err != nil {
		return err
	}
	var req dto.UpdateCouponRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateCoupon(ctx.UserContext(), couponId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coupon updated", res))
}

func (c *couponController) DeactivateCoupon(ctx *fiber.Ctx) error {
	couponId, err := serverutils.ParamUUID(ctx, "couponId")
	if err != nil {
		return err
	}
	if err := c.service.DeactivateCoupon(ctx.UserContext(), couponId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Coupon deactivated", nil))
}
