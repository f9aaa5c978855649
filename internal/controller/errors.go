package controller

import (
	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层的哨兵错误映射为 HTTP 状态码，其余错误记日志并返回 500
func respondError(ctx *gin.Context, err error) {
	var verr *judge.ValidationError
	switch {
	case errors.As(err, &verr):
		util.BadRequest(ctx, verr.Error())
	case errors.Is(err, util.ErrNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrChallengeHidden):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAttemptsUsedUp),
		errors.Is(err, util.ErrArenaDisabled),
		errors.Is(err, util.ErrAccountDisabled),
		errors.Is(err, util.ErrSelfLockout):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrSlugTaken):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidTimeRange),
		errors.Is(err, util.ErrSessionClosed),
		errors.Is(err, util.ErrNoRecords),
		errors.Is(err, util.ErrInvalidStatus),
		errors.Is(err, util.ErrInvalidSetting),
		errors.Is(err, util.ErrInvalidFileType),
		errors.Is(err, util.ErrFileTooLarge),
		errors.Is(err, util.ErrEmptyCode),
		errors.Is(err, util.ErrUnknownTeacher),
		errors.Is(err, util.ErrInvalidRole),
		errors.Is(err, judge.ErrNoFunctionName),
		errors.Is(err, judge.ErrNoTestCases):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID 解析 :id 参数，非法时直接返回 400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
