package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos/assessment"
	"github.com/yungbote/learnpath-backend/internal/data/repos/auth"
	"github.com/yungbote/learnpath-backend/internal/data/repos/catalog"
	"github.com/yungbote/learnpath-backend/internal/data/repos/user"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type CourseRepo = catalog.CourseRepo
type TopicRepo = catalog.TopicRepo
type PurchaseRepo = catalog.PurchaseRepo

type QuizRepo = assessment.QuizRepo
type ScoreRecordRepo = assessment.ScoreRecordRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return catalog.NewCourseRepo(db, baseLog)
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return catalog.NewPurchaseRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return assessment.NewQuizRepo(db, baseLog)
}

func NewScoreRecordRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRecordRepo {
	return assessment.NewScoreRecordRepo(db, baseLog)
}
