package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/handler"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Survey       *handler.SurveyHandler
	Question     *handler.QuestionHandler
	Distribution *handler.DistributionHandler
	Respondent   *handler.RespondentHandler
	Analytics    *handler.AnalyticsHandler
	Media        *handler.MediaHandler
	Live         *handler.LiveHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded brand assets statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAdminJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Respondent Group (Public, No Auth) ─────────────────────────
	// Respondents arrive through QR codes and links; they never log in.
	respondent := router.Group("/api/v1/respondent")
	{
		respondent.GET("/surveys/:distribution_id", handlers.Respondent.FetchSurvey)
		respondent.POST("/surveys/:distribution_id/submit", handlers.Respondent.Submit)

		// Server-hosted answering sessions.
		respondent.POST("/surveys/:distribution_id/sessions", handlers.Respondent.CreateSession)
		respondent.PUT("/sessions/:token/answers", handlers.Respondent.AnswerSession)
		respondent.POST("/sessions/:token/advance", handlers.Respondent.AdvanceSession)
		respondent.POST("/sessions/:token/submit", handlers.Respondent.SubmitSession)
	}

	// ─── 3. Console Group (JWT + Single Session) ───────────────────────
	console := router.Group("/api/v1/console")
	console.Use(
		middleware.RequireAdminJWT(authService),
		middleware.CheckSingleAdminSession(authService),
	)
	{
		// Company profile
		console.GET("/company", handlers.Auth.GetProfile)
		console.PUT("/company", handlers.Auth.UpdateProfile)

		// Surveys
		console.GET("/surveys", handlers.Survey.List)
		console.POST("/surveys", handlers.Survey.Create)
		console.GET("/surveys/:id", handlers.Survey.Get)
		console.PUT("/surveys/:id", handlers.Survey.Update)
		console.DELETE("/surveys/:id", handlers.Survey.Delete)
		console.POST("/surveys/:id/publish", handlers.Survey.Publish)
		console.POST("/surveys/:id/archive", handlers.Survey.Archive)
		console.POST("/surveys/:id/refresh-cache", handlers.Survey.RefreshCache)

		// Questions
		console.GET("/surveys/:id/questions", handlers.Question.List)
		console.POST("/surveys/:id/questions", handlers.Question.Create)
		console.PUT("/questions/:id", handlers.Question.Update)
		console.DELETE("/questions/:id", handlers.Question.Delete)

		// Distributions
		console.GET("/surveys/:id/distributions", handlers.Distribution.List)
		console.POST("/surveys/:id/distributions", handlers.Distribution.Create)
		console.PUT("/distributions/:id/active", handlers.Distribution.SetActive)
		console.DELETE("/distributions/:id", handlers.Distribution.Delete)

		// Analytics
		console.GET("/surveys/:id/analytics", handlers.Analytics.GetSummary)
		console.GET("/surveys/:id/responses", handlers.Analytics.ListRecentResponses)

		// Brand asset uploads
		console.POST("/media/:kind", handlers.Media.Upload)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/console/surveys/:id/live", handlers.Live.SurveyLiveStream)
	}

	return router
}
