package controller

import (
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
	PlanService     *service.ImprovementPlanService
}

func NewFeedbackController(feedbackService *service.FeedbackService, planService *service.ImprovementPlanService) *FeedbackController {
	return &FeedbackController{
		FeedbackService: feedbackService,
		PlanService:     planService,
	}
}

// SaveFeedback godoc
// @Summary 提交面试反馈
// @Description 面试所有者或受邀评审人提交，提交后更新所有者的改进计划
// @Tags 反馈
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Param   body body service.FeedbackInput true "反馈内容"
// @Success 201 {object} util.Response{data=model.Feedback}
// @Failure 400 {object} util.Response "反馈类型或分数不合法"
// @Failure 403 {object} util.Response "无权提交"
// @Failure 404 {object} util.Response "面试不存在"
// @Router /api/interviews/{id}/feedback [post]
func (c *FeedbackController) SaveFeedback(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.FeedbackInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.SaveFeedback(ctx.Request.Context(), userID, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, feedback)
}

// GetInterviewFeedback godoc
// @Summary 面试反馈列表
// @Tags 反馈
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response{data=[]model.Feedback}
// @Failure 403 {object} util.Response "无权查看"
// @Router /api/interviews/{id}/feedback [get]
func (c *FeedbackController) GetInterviewFeedback(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	feedback, err := c.FeedbackService.ListInterviewFeedback(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, feedback)
}

// GetImprovementPlan godoc
// @Summary 获取改进计划
// @Description 面试还没有反馈时返回引导计划
// @Tags 反馈
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "面试ID"
// @Success 200 {object} util.Response{data=service.PlanView}
// @Failure 403 {object} util.Response "不是面试所有者"
// @Failure 404 {object} util.Response "面试不存在"
// @Router /api/interviews/{id}/improvement-plan [get]
func (c *FeedbackController) GetImprovementPlan(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	view, err := c.PlanService.GetPlanForInterview(ctx.Request.Context(), id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
