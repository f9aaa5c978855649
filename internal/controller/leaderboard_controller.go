package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 排行榜
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量，默认 20，最多 100"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)
	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
