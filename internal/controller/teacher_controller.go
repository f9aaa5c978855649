package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherController struct {
	TeacherService *service.TeacherService
}

func NewTeacherController(teacherService *service.TeacherService) *TeacherController {
	return &TeacherController{TeacherService: teacherService}
}

// @Summary 教师列表
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Teacher}
// @Router /api/teachers [get]
func (c *TeacherController) List(ctx *gin.Context) {
	teachers, err := c.TeacherService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, teachers)
}

// @Summary 教师详情
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Param id path string true "教师ID或slug"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Failure 404 {object} util.Response
// @Router /api/teachers/{id} [get]
func (c *TeacherController) Get(ctx *gin.Context) {
	teacher, err := c.TeacherService.GetByRef(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, teacher)
}

// @Summary 创建教师
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TeacherInput true "教师信息"
// @Success 201 {object} util.Response{data=model.Teacher}
// @Failure 400 {object} util.Response
// @Router /api/admin/teachers [post]
func (c *TeacherController) Create(ctx *gin.Context) {
	var req service.TeacherInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	teacher, err := c.TeacherService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, teacher)
}

// @Summary 更新教师
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Param body body service.TeacherInput true "教师信息"
// @Success 200 {object} util.Response{data=model.Teacher}
// @Failure 404 {object} util.Response
// @Router /api/admin/teachers/{id} [put]
func (c *TeacherController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.TeacherInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	teacher, err := c.TeacherService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, teacher)
}

// @Summary 删除教师
// @Tags 管理员
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/teachers/{id} [delete]
func (c *TeacherController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.TeacherService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
