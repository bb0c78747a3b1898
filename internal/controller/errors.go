package controller

import (
	"careerzoom_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrInterviewNotFound, http.StatusNotFound},
	{util.ErrQuestionNotFound, http.StatusNotFound},
	{util.ErrNotInterviewOwner, http.StatusForbidden},
	{util.ErrFeedbackForbidden, http.StatusForbidden},
	{util.ErrFeedbackViewForbidden, http.StatusForbidden},
	{util.ErrPlanForbidden, http.StatusForbidden},
	{util.ErrEmailRegistered, http.StatusConflict},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrCurrentPasswordWrong, http.StatusUnauthorized},
	{util.ErrCurrentPasswordNeeded, http.StatusBadRequest},
	{util.ErrInvalidFeedbackType, http.StatusBadRequest},
	{util.ErrScoreOutOfRange, http.StatusBadRequest},
	{util.ErrAlreadyPeerReviewer, http.StatusBadRequest},
	{util.ErrCannotInviteSelf, http.StatusBadRequest},
	{util.ErrNothingToAnalyze, http.StatusBadRequest},
	{util.ErrTranscriptRequired, http.StatusBadRequest},
	{util.ErrUnsupportedFileType, http.StatusBadRequest},
	{util.ErrFileTooLarge, http.StatusBadRequest},
}

// respondError 已知业务错误映射为对应状态码，其余记录日志并返回 500
func respondError(ctx *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			util.Error(ctx, e.status, e.err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}

// pathID 解析 :id，非法时直接返回 400
func pathID(ctx *gin.Context) (uint, bool) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid ID")
	}
	return id, ok
}

// currentUserID 鉴权中间件之后调用
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
