package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"careerzoom_backend/pkg/tracing"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AnalysisWorker 轮询 analysis_jobs 表，至少执行一次；处理逻辑按面试幂等
type AnalysisWorker struct {
	JobRepo          *repository.AnalysisJobRepository
	InterviewRepo    *repository.InterviewRepository
	InterviewService *InterviewService
	FeedbackService  *FeedbackService

	pollInterval time.Duration
	maxAttempts  int
	retryDelay   time.Duration
	staleRunning time.Duration
}

func NewAnalysisWorker(
	cfg config.JobsConfig,
	jobRepo *repository.AnalysisJobRepository,
	interviewRepo *repository.InterviewRepository,
	interviewService *InterviewService,
	feedbackService *FeedbackService,
) *AnalysisWorker {
	w := &AnalysisWorker{
		JobRepo:          jobRepo,
		InterviewRepo:    interviewRepo,
		InterviewService: interviewService,
		FeedbackService:  feedbackService,
		pollInterval:     time.Duration(cfg.PollIntervalSeconds) * time.Second,
		maxAttempts:      cfg.MaxAttempts,
		retryDelay:       time.Duration(cfg.RetryDelaySeconds) * time.Second,
		staleRunning:     time.Duration(cfg.StaleRunningSeconds) * time.Second,
	}
	if w.pollInterval <= 0 {
		w.pollInterval = 2 * time.Second
	}
	if w.maxAttempts <= 0 {
		w.maxAttempts = 5
	}
	if w.staleRunning <= 0 {
		w.staleRunning = 5 * time.Minute
	}
	return w
}

// Start 在后台轮询，ctx 取消后退出；返回的 channel 在退出时关闭
func (w *AnalysisWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		logger.Log.Info("分析任务 worker 已启动", zap.Duration("pollInterval", w.pollInterval))
		for {
			select {
			case <-ctx.Done():
				logger.Log.Info("分析任务 worker 已停止")
				return
			case <-ticker.C:
				for w.RunOnce(ctx) {
				}
			}
		}
	}()
	return done
}

// RunOnce 认领并执行一个任务，没有可执行任务时返回 false
func (w *AnalysisWorker) RunOnce(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	job, err := w.JobRepo.ClaimNextRunnable(ctx, w.maxAttempts, w.retryDelay, w.staleRunning)
	if err != nil {
		logger.Log.Warn("认领分析任务失败", zap.Error(err))
		return false
	}
	if job == nil {
		return false
	}

	err = w.runSafely(ctx, job)
	if err != nil {
		monitoring.AnalysisJobs.WithLabelValues(string(model.JobFailed)).Inc()
		logger.Log.Error("分析任务失败",
			zap.String("jobId", job.ID),
			zap.Uint("interviewId", job.InterviewID),
			zap.Int("attempt", job.Attempts),
			zap.Error(err),
		)
		if markErr := w.JobRepo.MarkFailed(ctx, job.ID, err); markErr != nil {
			logger.Log.Error("标记任务失败状态出错", zap.String("jobId", job.ID), zap.Error(markErr))
		}
		return true
	}

	monitoring.AnalysisJobs.WithLabelValues(string(model.JobSucceeded)).Inc()
	if err := w.JobRepo.MarkSucceeded(ctx, job.ID); err != nil {
		logger.Log.Error("标记任务成功状态出错", zap.String("jobId", job.ID), zap.Error(err))
	}
	return true
}

func (w *AnalysisWorker) runSafely(ctx context.Context, job *model.AnalysisJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis handler panic: %v", r)
		}
	}()
	return w.Handle(ctx, job.InterviewID)
}

// Handle 以是否已有分析反馈判断幂等；结果已保存但反馈缺失时用保存的结果补写反馈
func (w *AnalysisWorker) Handle(ctx context.Context, interviewID uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.handle", attribute.Int64("interview.id", int64(interviewID)))
	defer func() { tracing.EndSpan(span, err) }()

	interview, err := w.InterviewRepo.FindDetail(ctx, interviewID)
	if err != nil {
		return err
	}
	recorded, err := w.FeedbackService.AnalysisRecorded(ctx, interviewID)
	if err != nil {
		return err
	}
	if recorded {
		return nil
	}

	var analysis *InterviewAnalysis
	if interview.HasAnalysis() {
		analysis, err = StoredAnalysis(interview)
	} else {
		analysis, err = w.InterviewService.AnalyzeAndStore(ctx, interview)
	}
	if err != nil {
		return err
	}
	if _, err := w.FeedbackService.RecordAnalysisFeedback(ctx, interview, analysis); err != nil {
		return fmt.Errorf("record analysis feedback: %w", err)
	}
	logger.Log.Info("面试分析完成", zap.Uint("interviewId", interviewID))
	return nil
}
