package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phtrivia/phtrivia-backend/internal/config"
	"github.com/phtrivia/phtrivia-backend/internal/http/handlers"
	"github.com/phtrivia/phtrivia-backend/internal/http/middleware"
	"github.com/phtrivia/phtrivia-backend/internal/metrics"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

// SetupRouter wires handlers into the gin engine. Route groups follow
// the trust boundary: public, authenticated player, admin.
func SetupRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	profileHandler *handlers.ProfileHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	questionHandler *handlers.QuestionHandler,
	mediaHandler *handlers.MediaHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
	roles middleware.RoleVerifier,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(m.Middleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public routes.
	api.GET("/categories", gameHandler.Categories)
	api.GET("/leaderboard", gameHandler.Leaderboard)
	api.GET("/ws", wsHandler.Handle)

	// Authenticated player routes.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/quiz", gameHandler.Quiz)
		protected.POST("/answers", gameHandler.SubmitAnswer)

		protected.GET("/profile", profileHandler.Me)
		protected.GET("/profile/balance", profileHandler.Balance)

		withdrawalLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/withdrawals", withdrawalLimit, withdrawalHandler.Submit)
		protected.GET("/withdrawals", withdrawalHandler.ListMine)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
	}

	// Admin routes. The role is re-verified against the users table on
	// every request, the token claim alone does not open this group.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin(roles))
	{
		admin.GET("/withdrawals", withdrawalHandler.ListByStatus)
		admin.GET("/withdrawals/:id", middleware.UUIDValidator("id"), withdrawalHandler.Get)
		admin.PATCH("/withdrawals/:id/status", middleware.UUIDValidator("id"), withdrawalHandler.UpdateStatus)

		admin.POST("/categories", questionHandler.CreateCategory)
		admin.PUT("/categories/:id", middleware.UUIDValidator("id"), questionHandler.UpdateCategory)
		admin.GET("/categories", questionHandler.ListCategories)

		admin.POST("/questions", questionHandler.CreateQuestion)
		admin.GET("/questions", questionHandler.ListQuestions)
		admin.GET("/questions/:id", middleware.UUIDValidator("id"), questionHandler.GetQuestion)
		admin.PUT("/questions/:id", middleware.UUIDValidator("id"), questionHandler.UpdateQuestion)
		admin.DELETE("/questions/:id", middleware.UUIDValidator("id"), questionHandler.DeactivateQuestion)
		admin.POST("/questions/draft", questionHandler.DraftQuestions)
		admin.POST("/questions/:id/image", middleware.UUIDValidator("id"), mediaHandler.UploadQuestionImage)

		admin.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.UserProfile)
		admin.POST("/users/:id/stats/recompute", middleware.UUIDValidator("id"), profileHandler.RecomputeStats)
	}

	return r
}
