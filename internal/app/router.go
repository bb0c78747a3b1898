package app

import (
	"careerzoom_backend/docs"
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/middleware"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerInterviewRoutes(authGroup, c)
		a.registerQuestionRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	users := group.Group("/users")
	{
		users.GET("/profile", c.user.GetProfile)
		users.PUT("/profile", c.user.UpdateProfile)
		users.POST("/profile/picture", c.user.UploadProfilePicture)
	}
}

func (a *App) registerInterviewRoutes(group *gin.RouterGroup, c *controllers) {
	interviews := group.Group("/interviews")
	{
		interviews.POST("", c.interview.CreateInterview)
		interviews.GET("", c.interview.GetUserInterviews)
		// 静态路径需在 :id 之前注册
		interviews.GET("/invitations", c.interview.GetPeerInvitations)
		interviews.GET("/:id", c.interview.GetInterview)
		interviews.DELETE("/:id", c.interview.DeleteInterview)
		interviews.POST("/:id/start", c.interview.StartInterview)
		interviews.POST("/:id/end", c.interview.EndInterview)
		interviews.POST("/:id/analyze", c.interview.AnalyzeInterview)
		interviews.POST("/:id/peer-invite", c.interview.InvitePeer)

		// 反馈与改进计划
		interviews.POST("/:id/feedback", c.feedback.SaveFeedback)
		interviews.GET("/:id/feedback", c.feedback.GetInterviewFeedback)
		interviews.GET("/:id/improvement-plan", c.feedback.GetImprovementPlan)
	}
}

func (a *App) registerQuestionRoutes(group *gin.RouterGroup, c *controllers) {
	questions := group.Group("/questions")
	{
		questions.GET("/industries", c.question.GetIndustries)
		questions.GET("/industry/:industry", c.question.GetIndustryQuestions)
		questions.GET("/:id/audio", c.question.GetQuestionAudio)
		questions.POST("", middleware.RoleMiddleware(model.Reviewer), c.question.CreateQuestion)
	}
	group.GET("/voices", c.question.GetVoices)
}
