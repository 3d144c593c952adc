package app

import (
	"strconv"
	"time"
	"workbook_coach_backend/docs"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/middleware"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/monitoring"
	"workbook_coach_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public routes
	a.registerPublicRoutes(router, c)

	// 2. authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerClientRoutes(authGroup, c, cfg)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerClientRoutes(rg *gin.RouterGroup, c *controllers, cfg *config.Config) {
	// each model call is expensive, so generation is limited per user
	generation := security.RateLimiterBy(cfg.RateLimit.GenerationsPerHour, time.Hour, userKey)
	clients := middleware.RoleMiddleware(model.Client, model.Coach)

	rg.GET("/me", c.auth.Me)

	// worksheets
	rg.GET("/worksheets", c.worksheet.ListWorksheets)
	rg.GET("/worksheets/recommended", c.recommendation.WorksheetRecommendations)
	rg.GET("/worksheets/:id", c.worksheet.GetWorksheet)

	// submissions
	submissions := rg.Group("/submissions", clients)
	{
		submissions.GET("", c.submission.ListSubmissions)
		submissions.POST("", c.submission.SaveDraft)
		submissions.GET("/:id", c.submission.GetSubmission)
		submissions.POST("/:id/submit", generation, c.submission.Submit)
		submissions.POST("/:id/diagnosis", generation, c.submission.RegenerateDiagnosis)
		submissions.POST("/:id/viewed", c.submission.MarkViewed)
	}

	// follow-ups
	followups := rg.Group("/followups", clients)
	{
		followups.GET("", c.followup.ListFollowups)
		followups.POST("", c.followup.StartFollowup)
		followups.GET("/recommendations", c.recommendation.FollowupRecommendations)
		followups.GET("/:id", c.followup.GetFollowup)
		followups.PUT("/:id/answers", c.followup.SaveAnswers)
		followups.POST("/:id/complete", generation, c.followup.CompleteFollowup)
	}
}

func userKey(c *gin.Context) string {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return ""
	}
	return strconv.FormatUint(uint64(claims.UserID), 10)
}
