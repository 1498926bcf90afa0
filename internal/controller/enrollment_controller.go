package controller

import (
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEnrollmentController interface {
	RegisterRoutes(r fiber.Router)
	Enroll(ctx *fiber.Ctx) error
	CheckEnrollment(ctx *fiber.Ctx) error
	GetMyEnrollments(ctx *fiber.Ctx) error
	Unenroll(ctx *fiber.Ctx) error
}

type enrollmentController struct {
	service service.IEnrollmentService
}

func NewEnrollmentController(service service.IEnrollmentService) IEnrollmentController {
	return &enrollmentController{service: service}
}

func (c *enrollmentController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware
	r.Post("/courses/:courseId/enroll", auth, c.Enroll)
	r.Get("/courses/:courseId/enrollment", auth, c.CheckEnrollment)
	r.Delete("/courses/:courseId/enroll", auth, c.Unenroll)
	r.Get("/my-enrollments", auth, c.GetMyEnrollments)
}

// Enroll answers 402 with payment details for paid courses.
func (c *enrollmentController) Enroll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}

	res, err := c.service.Enroll(ctx.UserContext(), userId, courseId)
	if err != nil {
		return err
	}
	return created(ctx, "Enrolled", res)
}

func (c *enrollmentController) CheckEnrollment(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}

	res, err := c.service.CheckEnrollment(ctx.UserContext(), userId, courseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Enrollment status", res))
}

func (c *enrollmentController) GetMyEnrollments(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMyEnrollments(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Enrollments fetched", res))
}

func (c *enrollmentController) Unenroll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	courseId, err := serverutils.ParamUUID(ctx, "courseId")
	if err != nil {
		return err
	}

	if err := c.service.Unenroll(ctx.UserContext(), userId, courseId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Unenrolled", nil))
}
