package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lawn-advisor/internal/domain/session"
	"github.com/yanqian/lawn-advisor/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, sessionSvc session.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", handler.Metrics)

	protected := []gin.HandlerFunc{
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		authMiddleware(sessionSvc),
	}

	api := router.Group("/api/v1", protected...)
	{
		api.POST("/recommendations", handler.Recommend)
		api.GET("/recommendations/recent", handler.RecentOutcomes)
	}
	router.POST("/api/recommendations", append(protected, handler.Recommend)...)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
