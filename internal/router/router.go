package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practicetracker/backend/internal/handler"
	"practicetracker/backend/internal/middleware"
	"practicetracker/backend/internal/service"
)

type Options struct {
	CORSOrigins       []string
	AuthRatePerMinute int
}

func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	practiceHandler *handler.PracticeHandler,
	configHandler *handler.ConfigHandler,
	opts Options,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The config handler enforces GET-only itself, answering 405 elsewhere.
	engine.Any("/api/get-supabase-config", configHandler.Handle)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.AuthRateLimit(opts.AuthRatePerMinute))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	me := api.Group("/me")
	me.Use(middleware.Auth(authService))
	me.GET("", practiceHandler.Profile)

	practice := api.Group("/practice")
	practice.Use(middleware.Auth(authService))
	practice.POST("/draft", practiceHandler.StartDraft)
	practice.GET("/draft", practiceHandler.GetDraft)
	practice.DELETE("/draft", practiceHandler.DiscardDraft)
	practice.POST("/draft/cards", practiceHandler.AddCard)
	practice.PUT("/draft/cards/:id", practiceHandler.UpdateCard)
	practice.POST("/draft/cards/:id/stopwatch/:action", practiceHandler.StopwatchAction)
	practice.POST("/draft/cards/:id/submit", practiceHandler.SubmitCard)
	practice.DELETE("/draft/cards/:id", practiceHandler.RemoveCard)
	practice.POST("/sessions", practiceHandler.SaveSession)
	practice.GET("/sessions", practiceHandler.RecentSessions)
	practice.GET("/trend", practiceHandler.WeeklyTrend)

	return engine
}
