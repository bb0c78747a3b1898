package controller

import (
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// LoginRequest 登录请求
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册候选人或评审人账号，返回访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"id":    user.ID,
		"user":  user,
		"token": token,
	})
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Email and password are required")
		return
	}

	token, user, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}
