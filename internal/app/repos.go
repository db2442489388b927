package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserToken   repos.UserTokenRepo
	Course      repos.CourseRepo
	Topic       repos.TopicRepo
	Purchase    repos.PurchaseRepo
	Quiz        repos.QuizRepo
	ScoreRecord repos.ScoreRecordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserToken:   repos.NewUserTokenRepo(db, log),
		Course:      repos.NewCourseRepo(db, log),
		Topic:       repos.NewTopicRepo(db, log),
		Purchase:    repos.NewPurchaseRepo(db, log),
		Quiz:        repos.NewQuizRepo(db, log),
		ScoreRecord: repos.NewScoreRecordRepo(db, log),
	}
}
