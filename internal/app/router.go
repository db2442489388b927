package app

import (
	"github.com/yungbote/learnpath-backend/internal/http"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Exporter != "" {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		ServiceName:    serviceName,
		Log:            log,
		Metrics:        metrics,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		CourseHandler:  handlers.Course,
		TopicHandler:   handlers.Topic,
		QuizHandler:    handlers.Quiz,
	})
}
