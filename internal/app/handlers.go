package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	User   *httpH.UserHandler
	Course *httpH.CourseHandler
	Topic  *httpH.TopicHandler
	Quiz   *httpH.QuizHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health: httpH.NewHealthHandler(ping),
		Auth:   httpH.NewAuthHandler(services.Auth, cfg.SecureCookie),
		User:   httpH.NewUserHandler(services.User, services.Analytics),
		Course: httpH.NewCourseHandler(services.Course),
		Topic:  httpH.NewTopicHandler(services.Topic),
		Quiz: httpH.NewQuizHandlerWithDeps(httpH.QuizHandlerDeps{
			Log:           log,
			Generation:    services.QuizGeneration,
			Delivery:      services.QuizDelivery,
			Scoring:       services.Scoring,
			Metrics:       metrics,
			PassThreshold: cfg.WeakThreshold,
		}),
	}
}
