package app

import (
	"enarm_backend/docs"
	"enarm_backend/internal/config"
	"enarm_backend/internal/middleware"
	"enarm_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/specialties", c.specialty.ListSpecialties)
		public.GET("/ranking", c.ranking.GetRanking)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// The exam/attempt surface needs an identity.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.POST("/exams/generate", c.exam.GenerateExam)
		authGroup.GET("/exams/:id", c.exam.GetExam)
		authGroup.POST("/exams/:id/attempts", c.exam.StartAttempt)

		authGroup.GET("/attempts", c.attempt.ListAttempts)
		authGroup.GET("/attempts/:id", c.attempt.GetAttempt)
		authGroup.POST("/attempts/:id/answers", c.attempt.RecordAnswer)
		authGroup.PUT("/attempts/:id/answers", c.attempt.RecordAnswers)
		authGroup.GET("/attempts/:id/answers", c.attempt.GetAttemptAnswers)
		authGroup.POST("/attempts/:id/finalize", c.attempt.FinalizeAttempt)

		// Question bank administration (authorization is an external concern;
		// this core only establishes identity).
		authGroup.POST("/admin/bank-items", c.bankItem.CreateBankItem)
		authGroup.GET("/admin/bank-items", c.bankItem.ListBankItems)
	}
}
