package app

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/controller"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/service"
	"careerzoom_backend/pkg/database"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"careerzoom_backend/pkg/security"
	"careerzoom_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services *services
	tracer   *sdktrace.TracerProvider
	ctx      context.Context
	cancel   context.CancelFunc
}

type repositories struct {
	user      *repository.UserRepository
	interview *repository.InterviewRepository
	question  *repository.QuestionRepository
	feedback  *repository.FeedbackRepository
	plan      *repository.ImprovementPlanRepository
	job       *repository.AnalysisJobRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	ai        *service.AIService
	zoom      *service.ZoomService
	plan      *service.ImprovementPlanService
	feedback  *service.FeedbackService
	interview *service.InterviewService
	question  *service.QuestionService
	speech    *service.SpeechService
	worker    *service.AnalysisWorker
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	interview *controller.InterviewController
	feedback  *controller.FeedbackController
	question  *controller.QuestionController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		interview: repository.NewInterviewRepository(db),
		question:  repository.NewQuestionRepository(db),
		feedback:  repository.NewFeedbackRepository(db),
		plan:      repository.NewImprovementPlanRepository(db),
		job:       repository.NewAnalysisJobRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	var events service.EventPublisher = service.NopEventPublisher{}
	if rdb != nil {
		events = service.NewRedisEventPublisher(rdb)
	}

	s.storage = service.NewStorageService(a.ctx, cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)

	s.ai = service.NewAIService(cfg.AI)
	s.zoom = service.NewZoomService(cfg.Zoom)
	if s.ai.MockEnabled() {
		logger.Log.Info("AI service running in mock mode")
	}
	if s.zoom.MockEnabled() {
		logger.Log.Info("Zoom service running in mock mode")
	}

	s.plan = service.NewImprovementPlanService(
		repos.plan,
		repos.user,
		repos.interview,
		repos.feedback,
		s.ai,
		events,
		cfg.Plan.MaxConflictRetries,
	)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.interview, s.plan, events)
	s.interview = service.NewInterviewService(
		repos.interview,
		repos.question,
		repos.user,
		repos.job,
		s.zoom,
		s.ai,
	)
	s.question = service.NewQuestionService(repos.question)
	s.speech = service.NewSpeechService(repos.question, s.ai, s.storage)
	s.worker = service.NewAnalysisWorker(cfg.Jobs, repos.job, repos.interview, s.interview, s.feedback)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user),
		interview: controller.NewInterviewController(s.interview),
		feedback:  controller.NewFeedbackController(s.feedback, s.plan),
		question:  controller.NewQuestionController(s.question, s.speech),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.MigrateOnly {
		return app
	}

	// Redis 只承载事件推送，不可用时降级为不推送
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, realtime events disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	var workerDone <-chan struct{}
	if a.Config.Jobs.Enabled {
		workerDone = a.services.worker.Start(a.ctx)
		logger.Log.Info("Analysis worker started")
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 停止后台任务，等待当前任务结束
	a.cancel()
	if workerDone != nil {
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			logger.Log.Warn("Analysis worker did not stop in time")
		}
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

// Close 释放 -migrate-only 模式下打开的连接
func (a *App) Close() {
	a.cancel()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
