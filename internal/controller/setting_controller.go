package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type SettingController struct {
	SettingService *service.SettingService
}

func NewSettingController(settingService *service.SettingService) *SettingController {
	return &SettingController{SettingService: settingService}
}

// @Summary 站点设置
// @Tags 设置
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/settings [get]
func (c *SettingController) All(ctx *gin.Context) {
	settings, err := c.SettingService.All()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// swagger:model SettingRequest
type SettingRequest struct {
	Value json.RawMessage `json:"value" swaggertype:"object"`
}

// @Summary 写入设置
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "设置项"
// @Param body body SettingRequest true "任意 JSON 值"
// @Success 200 {object} util.Response{data=model.AppSetting}
// @Failure 400 {object} util.Response
// @Router /api/admin/settings/{key} [put]
func (c *SettingController) Set(ctx *gin.Context) {
	var req SettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := util.GetUserFromContext(ctx)
	setting, err := c.SettingService.Set(ctx.Param("key"), req.Value, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, setting)
}

// @Summary 删除设置
// @Tags 管理员
// @Security BearerAuth
// @Param key path string true "设置项"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/settings/{key} [delete]
func (c *SettingController) Delete(ctx *gin.Context) {
	key := ctx.Param("key")
	if err := c.SettingService.Delete(key); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"key": key})
}
