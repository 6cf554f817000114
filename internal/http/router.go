// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"farebot/internal/http/handlers"
	"farebot/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.RateLimit(deps.RatePerMin, deps.RateBurst, deps.Log))

	chat := handlers.NewChatHandler(deps.Sessions, deps.TurnTimeout)
	api.POST("/chat", chat.Chat)

	sessions := handlers.NewSessionHandler(deps.Sessions)
	api.GET("/sessions/:id", sessions.Get)

	return r
}
