package controller

import (
	"learnhub-be/internal/dto"
	"learnhub-be/internal/pkg/serverutils"
	"learnhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJudgeController interface {
	RegisterRoutes(r fiber.Router)
	SubmitSolution(ctx *fiber.Ctx) error
	GetMySubmissions(ctx *fiber.Ctx) error
	GetRewardHistory(ctx *fiber.Ctx) error
}

type judgeController struct {
	submissions service.ISubmissionService
	rewards     service.IRewardService
}

func NewJudgeController(submissions service.ISubmissionService, rewards service.IRewardService) IJudgeController {
	return &judgeController{submissions: submissions, rewards: rewards}
}

func (c *judgeController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware
	r.Post("/problems/:problemId/submit", auth, c.SubmitSolution)
	r.Get("/problems/:problemId/submissions", auth, c.GetMySubmissions)
	r.Get("/rewards/history", auth, c.GetRewardHistory)
}

func (c *judgeController) SubmitSolution(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	problemId, err := serverutils.ParamUUID(ctx, "problemId")
	if err != nil {
		return err
	}
	var req dto.SubmitSolutionRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.submissions.SubmitSolution(ctx.UserContext(), userId, problemId, &req)
	if err != nil {
		return err
	}
	return created(ctx, "Submission judged", res)
}

func (c *judgeController) GetMySubmissions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	problemId, err := serverutils.ParamUUID(ctx, "problemId")
	if err != nil {
		return err
	}

	res, err := c.submissions.GetMySubmissions(ctx.UserContext(), userId, problemId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Submissions fetched", res))
}

func (c *judgeController) GetRewardHistory(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.RewardHistoryQuery
	if err := bindQuery(ctx, &query); err != nil {
		return err
	}

	res, err := c.rewards.GetRewardHistory(ctx.UserContext(), userId, &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reward history", res))
}
