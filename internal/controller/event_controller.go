package controller

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// canSeeDrafts 公开接口只挂了 OptionalAuth，未登录时 user 为 nil
func canSeeDrafts(ctx *gin.Context) bool {
	user := util.GetUserFromContext(ctx)
	return user != nil && (user.IsAdmin() || user.Role == model.RoleTeacher)
}

// @Summary 活动列表
// @Description 已发布的活动，未开始的排在前面；教师和管理员可用 all=true 查看草稿
// @Tags 活动
// @Produce json
// @Param all query bool false "包含草稿"
// @Success 200 {object} util.Response{data=[]model.Event}
// @Router /api/events [get]
func (c *EventController) List(ctx *gin.Context) {
	var (
		events []model.Event
		err    error
	)
	if ctx.Query("all") == "true" && canSeeDrafts(ctx) {
		events, err = c.EventService.ListAll()
	} else {
		events, err = c.EventService.ListPublished()
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// @Summary 活动详情
// @Tags 活动
// @Produce json
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response{data=model.Event}
// @Failure 404 {object} util.Response
// @Router /api/events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	event, err := c.EventService.Get(id, canSeeDrafts(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// @Summary 创建活动
// @Tags 活动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EventInput true "活动信息"
// @Success 201 {object} util.Response{data=model.Event}
// @Failure 400 {object} util.Response
// @Router /api/events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req service.EventInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user := util.GetUserFromContext(ctx)
	event, err := c.EventService.Create(req, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// @Summary 更新活动
// @Tags 活动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body service.EventInput true "活动信息"
// @Success 200 {object} util.Response{data=model.Event}
// @Router /api/events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.EventInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	event, err := c.EventService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// @Summary 删除活动
// @Tags 活动
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EventService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// @Summary 上传活动海报
// @Description 图片或 PDF，最大 5MB
// @Tags 活动
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param file formData file true "海报文件"
// @Success 200 {object} util.Response{data=model.Event}
// @Failure 400 {object} util.Response
// @Router /api/events/{id}/poster [post]
func (c *EventController) UploadPoster(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	event, err := c.EventService.UploadPoster(ctx.Request.Context(), id, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, event)
}
