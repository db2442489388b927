package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	Course         services.CourseService
	Topic          services.TopicService
	QuizGeneration services.QuizGenerationService
	QuizDelivery   services.QuizDeliveryService
	Scoring        services.ScoringService
	Analytics      services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(db, log, repos.User, repos.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:   services.NewUserService(db, log, repos.User, repos.Course, repos.Purchase),
		Course: services.NewCourseService(db, log, repos.Course, repos.Purchase),
		Topic:  services.NewTopicService(db, log, repos.Topic, repos.Course),
		QuizGeneration: services.NewQuizGenerationService(db, log, repos.Topic, repos.Course, repos.Quiz,
			clients.Generator, clients.Locker, cfg.Quiz),
		QuizDelivery: services.NewQuizDeliveryService(db, log, repos.Quiz, repos.ScoreRecord, repos.Topic, repos.Course),
		Scoring:      services.NewScoringService(db, log, repos.Quiz, repos.ScoreRecord),
		Analytics: services.NewAnalyticsService(db, log, repos.ScoreRecord, repos.Topic, repos.Course, repos.Purchase,
			clients.Generator, cfg.WeakThreshold),
	}
}
