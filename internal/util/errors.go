package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailRegistered       = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrCurrentPasswordNeeded = errors.New("current password is required to update password")
	ErrCurrentPasswordWrong  = errors.New("current password is incorrect")
	ErrInterviewNotFound     = errors.New("interview not found")
	ErrNotInterviewOwner     = errors.New("not authorized")
	ErrFeedbackForbidden     = errors.New("not authorized to provide feedback")
	ErrFeedbackViewForbidden = errors.New("not authorized to view feedback")
	ErrPlanForbidden         = errors.New("not authorized to view this improvement plan")
	ErrInvalidFeedbackType   = errors.New("feedback type must be one of ai, peer, self")
	ErrScoreOutOfRange       = errors.New("scores must be between 0 and 5")
	ErrAlreadyPeerReviewer   = errors.New("user is already a peer reviewer")
	ErrCannotInviteSelf      = errors.New("cannot invite yourself as a peer reviewer")
	ErrNothingToAnalyze      = errors.New("no recording or transcript available for analysis")
	ErrTranscriptRequired    = errors.New("a transcript is required for AI analysis")
	ErrPlanVersionConflict   = errors.New("improvement plan was modified concurrently")
	ErrUnsupportedFileType   = errors.New("only image files are allowed")
	ErrFileTooLarge          = errors.New("file exceeds the 5MB limit")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrObjectNotFound        = errors.New("object not found")
)
