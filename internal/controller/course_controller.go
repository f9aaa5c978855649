package controller

import (
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 课程列表
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param all query bool false "包含已停课的课程"
// @Param teacherId query int false "按教师过滤"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	activeOnly := ctx.Query("all") != "true"
	teacherID := util.MustParseUint(ctx.Query("teacherId"))

	courses, err := c.CourseService.List(activeOnly, teacherID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 更新课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 删除课程
// @Tags 课程
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
