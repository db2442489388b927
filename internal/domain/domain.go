package domain

import (
	"github.com/yungbote/learnpath-backend/internal/domain/assessment"
	"github.com/yungbote/learnpath-backend/internal/domain/auth"
	"github.com/yungbote/learnpath-backend/internal/domain/catalog"
	"github.com/yungbote/learnpath-backend/internal/domain/user"
)

const (
	RoleUser  = user.RoleUser
	RoleAdmin = user.RoleAdmin
)

type User = user.User
type UserToken = auth.UserToken

type Course = catalog.Course
type Topic = catalog.Topic
type Purchase = catalog.Purchase

type Quiz = assessment.Quiz
type Question = assessment.Question
type SanitizedQuiz = assessment.SanitizedQuiz
type SanitizedQuestion = assessment.SanitizedQuestion
type ScoreRecord = assessment.ScoreRecord
type AnswerDetail = assessment.AnswerDetail

// Percentage rounds score/total half up; a zero total scores 0.
var Percentage = assessment.Percentage

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Course{},
		&Purchase{},
		&Topic{},
		&Quiz{},
		&ScoreRecord{},
	}
}
