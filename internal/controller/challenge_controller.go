package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService  *service.ChallengeService
	SubmissionService *service.SubmissionService
}

func NewChallengeController(challengeService *service.ChallengeService, submissionService *service.SubmissionService) *ChallengeController {
	return &ChallengeController{
		ChallengeService:  challengeService,
		SubmissionService: submissionService,
	}
}

// @Summary 挑战列表
// @Description 非管理员只能看到已发布的挑战，且不包含期望输出
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ChallengeView}
// @Router /api/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	list, err := c.ChallengeService.List(util.GetUserFromContext(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 挑战详情
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response{data=service.ChallengeView}
// @Failure 404 {object} util.Response
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) Get(ctx *gin.Context) {
	challenge, err := c.ChallengeService.Get(util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, challenge)
}

// @Summary 创建挑战
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ChallengeInput true "挑战定义"
// @Success 201 {object} util.Response{data=model.Challenge}
// @Failure 400 {object} util.Response
// @Router /api/admin/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var req service.ChallengeInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	challenge, err := c.ChallengeService.Create(util.GetUserFromContext(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, challenge)
}

// @Summary 更新挑战
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Param body body service.ChallengeInput true "挑战定义"
// @Success 200 {object} util.Response{data=model.Challenge}
// @Router /api/admin/challenges/{id} [put]
func (c *ChallengeController) Update(ctx *gin.Context) {
	var req service.ChallengeInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	challenge, err := c.ChallengeService.Update(ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, challenge)
}

// @Summary 删除挑战
// @Tags 管理员
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/{id} [delete]
func (c *ChallengeController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.ChallengeService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// @Summary 开始挑战计时
// @Description 重复调用返回第一次的开始时间
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response{data=service.StartResult}
// @Router /api/challenges/{id}/start [post]
func (c *ChallengeController) Start(ctx *gin.Context) {
	result, err := c.SubmissionService.Start(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// swagger:model SubmitRequest
type SubmitRequest struct {
	Code string `json:"code" binding:"required"`
}

// Submit godoc
// @Summary 提交代码
// @Description 检查提交次数后逐个运行测试用例并保存结果；超过时限的提交记为 0 分
// @Tags 挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Param body body SubmitRequest true "代码"
// @Success 201 {object} util.Response{data=service.SubmissionOutcome}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "提交次数已用完"
// @Failure 404 {object} util.Response
// @Router /api/challenges/{id}/submissions [post]
func (c *ChallengeController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	outcome, err := c.SubmissionService.Submit(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req.Code)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, outcome)
}

// @Summary 我的提交记录
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response{data=service.MySubmissions}
// @Router /api/challenges/{id}/submissions/me [get]
func (c *ChallengeController) MySubmissions(ctx *gin.Context) {
	mine, err := c.SubmissionService.Mine(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, mine)
}

// @Summary 挑战的全部提交
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Param limit query int false "数量，默认 50，最多 500"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/admin/challenges/{id}/submissions [get]
func (c *ChallengeController) ListSubmissions(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), 50, 500)
	submissions, err := c.SubmissionService.ListForChallenge(ctx.Param("id"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}
