package controller

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/service"
	"campus_club_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserController 后台账号管理
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// List godoc
// @Summary 获取用户列表
// @Description 获取用户列表，支持分页和筛选
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页条数" default(20)
// @Param role query string false "角色筛选"
// @Param status query string false "状态筛选 active|disabled"
// @Param search query string false "按姓名或邮箱搜索"
// @Success 200 {object} util.Response{data=service.UserPage}
// @Failure 400 {object} util.Response
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize := util.ParseLimit(ctx.Query("pageSize"), 20, 100)

	filter := repository.UserFilter{
		Role:   model.UserRole(ctx.Query("role")),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}

	result, err := c.UserService.List(filter, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取单个用户信息
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	user, err := c.UserService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Update godoc
// @Summary 更新用户角色或状态
// @Description 授予教师角色、禁用账号等。不能撤销自己的管理员身份或禁用自己。
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.UserUpdate true "修改内容"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [patch]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UserUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.UserService.Update(util.GetUserFromContext(ctx), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 重置用户密码
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "{password: 临时密码}"
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	password, err := c.UserService.ResetPassword(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"password": password})
}

// @Summary 删除用户
// @Tags 用户管理
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.Delete(util.GetUserFromContext(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
