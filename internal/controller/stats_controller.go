package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// @Summary 数据概览
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/stats [get]
func (c *StatsController) Overview(ctx *gin.Context) {
	stats, err := c.StatsService.Overview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
