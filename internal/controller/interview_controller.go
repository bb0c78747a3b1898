package controller

import (
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InterviewController struct {
	InterviewService *service.InterviewService
}

func NewInterviewController(interviewService *service.InterviewService) *InterviewController {
	return &InterviewController{InterviewService: interviewService}
}

type EndInterviewRequest struct {
	Transcript string `json:"transcript"`
}

type PeerInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateInterview godoc
// @Summary 创建模拟面试
// @Description 未填写的字段使用默认值；根据行业/岗位/难度挑选题目并尝试创建 Zoom 会议
// @Tags 面试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateInterviewInput true "面试信息"
// @Success 201 {object} util.Response{data=model.Interview}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/interviews [post]
func (c *InterviewController) CreateInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.CreateInterviewInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	interview, err := c.InterviewService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, interview)
}

// GetUserInterviews godoc
// @Summary 我的面试列表
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Interview}
// @Router /api/interviews [get]
func (c *InterviewController) GetUserInterviews(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	interviews, err := c.InterviewService.List(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, interviews)
}

// GetPeerInvitations godoc
// @Summary 邀请我评审的面试
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Interview}
// @Router /api/interviews/invitations [get]
func (c *InterviewController) GetPeerInvitations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	interviews, err := c.InterviewService.Invitations(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, interviews)
}

// GetInterview godoc
// @Summary 面试详情
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response{data=model.Interview}
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "面试不存在"
// @Router /api/interviews/{id} [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	interview, err := c.InterviewService.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, interview)
}

// StartInterview godoc
// @Summary 开始面试
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response{data=service.StartInterviewResult}
// @Failure 403 {object} util.Response "不是面试所有者"
// @Router /api/interviews/{id}/start [post]
func (c *InterviewController) StartInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	result, err := c.InterviewService.Start(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// EndInterview godoc
// @Summary 结束面试
// @Description 保存转写，转写足够长时排队自动分析
// @Tags 面试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Param   body body EndInterviewRequest false "转写文本"
// @Success 200 {object} util.Response{data=service.EndInterviewResult}
// @Router /api/interviews/{id}/end [post]
func (c *InterviewController) EndInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req EndInterviewRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	result, err := c.InterviewService.End(ctx.Request.Context(), userID, id, req.Transcript)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AnalyzeInterview godoc
// @Summary 同步分析面试
// @Description 需要录像或转写
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "没有可分析的内容"
// @Router /api/interviews/{id}/analyze [post]
func (c *InterviewController) AnalyzeInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	analysis, err := c.InterviewService.Analyze(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true, "analysis": analysis})
}

// InvitePeer godoc
// @Summary 邀请同行评审
// @Tags 面试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Param   body body PeerInviteRequest true "评审人邮箱"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "已是评审人"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/interviews/{id}/peer-invite [post]
func (c *InterviewController) InvitePeer(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req PeerInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.InterviewService.InvitePeer(ctx.Request.Context(), userID, id, req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true, "message": "Peer reviewer added successfully"})
}

// DeleteInterview godoc
// @Summary 删除面试
// @Tags 面试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "不是面试所有者"
// @Router /api/interviews/{id} [delete]
func (c *InterviewController) DeleteInterview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.InterviewService.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true, "message": "Interview deleted successfully"})
}
