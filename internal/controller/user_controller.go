package controller

import (
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 获取个人资料
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, err := c.UserService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Description 修改密码时必须提供 currentPassword
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.UpdateProfileInput true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "缺少当前密码"
// @Failure 401 {object} util.Response "当前密码错误"
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadProfilePicture godoc
// @Summary 上传头像
// @Description 仅支持 JPEG/PNG/GIF/WEBP，最大 5MB
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件不合法"
// @Router /api/users/profile/picture [post]
func (c *UserController) UploadProfilePicture(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "No file uploaded")
		return
	}

	url, err := c.UserService.UploadProfilePicture(ctx.Request.Context(), userID, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":        "Profile picture uploaded successfully",
		"profilePicture": url,
	})
}
