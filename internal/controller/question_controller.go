package controller

import (
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/service"
	"careerzoom_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	SpeechService   *service.SpeechService
}

func NewQuestionController(questionService *service.QuestionService, speechService *service.SpeechService) *QuestionController {
	return &QuestionController{QuestionService: questionService, SpeechService: speechService}
}

// GetIndustries godoc
// @Summary 题库行业列表
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/questions/industries [get]
func (c *QuestionController) GetIndustries(ctx *gin.Context) {
	industries, err := c.QuestionService.Industries(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, industries)
}

// GetIndustryQuestions godoc
// @Summary 按行业查询公开题目
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   industry path string true "行业"
// @Param   jobTitle query string false "岗位"
// @Param   difficulty query string false "难度"
// @Param   type query string false "题型"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/questions/industry/{industry} [get]
func (c *QuestionController) GetIndustryQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ByIndustry(ctx.Request.Context(), repository.QuestionFilter{
		Industry:   ctx.Param("industry"),
		JobTitle:   ctx.Query("jobTitle"),
		Difficulty: ctx.Query("difficulty"),
		Type:       ctx.Query("type"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 新增题目
// @Description 仅评审人与管理员
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateQuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 403 {object} util.Response "无权限"
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.CreateQuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuestionService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// GetQuestionAudio godoc
// @Summary 题目朗读音频
// @Description 未知音色按 alloy 处理，语音接口不可用时返回占位音频
// @Tags 题库
// @Produce  audio/mpeg
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   voice query string false "音色"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id}/audio [get]
func (c *QuestionController) GetQuestionAudio(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	audio, err := c.SpeechService.QuestionAudio(ctx.Request.Context(), id, ctx.Query("voice"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "audio/mpeg", audio)
}

// GetVoices godoc
// @Summary 可用音色列表
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.Voice}
// @Router /api/voices [get]
func (c *QuestionController) GetVoices(ctx *gin.Context) {
	util.Success(ctx, c.SpeechService.Voices())
}
