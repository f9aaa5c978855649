package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
	Hub               *service.AttendanceHub
}

func NewAttendanceController(attendanceService *service.AttendanceService, hub *service.AttendanceHub) *AttendanceController {
	return &AttendanceController{AttendanceService: attendanceService, Hub: hub}
}

// swagger:model CreateAttendanceRequest
type CreateAttendanceRequest struct {
	SessionID uint                  `json:"sessionId" binding:"required"`
	Records   []service.RecordInput `json:"records" binding:"required,min=1,dive"`
}

// Create godoc
// @Summary 批量登记考勤
// @Description 同一场次中已登记的学生会被跳过，返回实际新增条数。按客户端地址限流。
// @Tags 考勤
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAttendanceRequest true "考勤记录"
// @Success 201 {object} util.Response{data=object} "{created: n}"
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 429 {object} object "{error: ...}"
// @Router /api/attendance [post]
func (c *AttendanceController) Create(ctx *gin.Context) {
	var req CreateAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	created, err := c.AttendanceService.Record(user, req.SessionID, req.Records, ctx.ClientIP())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"created": created})
}

// List godoc
// @Summary 场次考勤记录
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param sessionId query int true "场次ID"
// @Success 200 {object} util.Response{data=[]model.AttendanceRecord}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 429 {object} object
// @Router /api/attendance [get]
func (c *AttendanceController) List(ctx *gin.Context) {
	sessionID := util.MustParseUint(ctx.Query("sessionId"))
	if sessionID == 0 {
		util.BadRequest(ctx, "sessionId is required")
		return
	}
	records, err := c.AttendanceService.ListRecords(sessionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// Delete godoc
// @Summary 删除考勤记录
// @Tags 考勤
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 429 {object} object
// @Router /api/attendance/{id} [delete]
func (c *AttendanceController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.AttendanceService.DeleteRecord(util.GetUserFromContext(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// @Summary 创建点名场次
// @Tags 考勤
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SessionInput true "场次信息"
// @Success 201 {object} util.Response{data=model.AttendanceSession}
// @Router /api/attendance/sessions [post]
func (c *AttendanceController) CreateSession(ctx *gin.Context) {
	var req service.SessionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	session, err := c.AttendanceService.CreateSession(util.GetUserFromContext(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 点名场次列表
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.AttendanceSession}
// @Router /api/attendance/sessions [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	sessions, err := c.AttendanceService.ListSessions(util.GetUserFromContext(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// @Summary 场次统计
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "场次ID"
// @Success 200 {object} util.Response{data=model.AttendanceSummary}
// @Router /api/attendance/sessions/{id}/summary [get]
func (c *AttendanceController) Summary(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	summary, err := c.AttendanceService.Summary(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 结束点名
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "场次ID"
// @Success 200 {object} util.Response{data=model.AttendanceSession}
// @Router /api/attendance/sessions/{id}/close [patch]
func (c *AttendanceController) CloseSession(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	session, err := c.AttendanceService.CloseSession(util.GetUserFromContext(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 删除点名场次
// @Tags 考勤
// @Security BearerAuth
// @Param id path int true "场次ID"
// @Success 200 {object} util.Response
// @Router /api/attendance/sessions/{id} [delete]
func (c *AttendanceController) DeleteSession(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.AttendanceService.DeleteSession(util.GetUserFromContext(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// Realtime godoc
// @Summary 考勤实时推送
// @Description WebSocket，推送 ATTENDANCE_CREATED / ATTENDANCE_DELETED / SESSION_CLOSED
// @Tags 考勤
// @Param sessionId path int true "场次ID"
// @Param token query string true "JWT"
// @Router /api/realtime/attendance/{sessionId} [get]
func (c *AttendanceController) Realtime(ctx *gin.Context) {
	sessionID, ok := pathID(ctx, "sessionId")
	if !ok {
		return
	}
	if _, err := c.AttendanceService.GetSession(sessionID); err != nil {
		respondError(ctx, err)
		return
	}
	user := util.GetUserFromContext(ctx)
	service.ServeAttendanceWs(c.Hub, ctx.Writer, ctx.Request, sessionID, user.UserID)
}
