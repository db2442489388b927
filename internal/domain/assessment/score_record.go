package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerDetail is the graded record of one submitted answer.
type AnswerDetail struct {
	Question       string `json:"question"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// ScoreRecord is the immutable outcome of one quiz submission.
type ScoreRecord struct {
	ID             uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                         `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	QuizID         uuid.UUID                         `gorm:"type:uuid;not null;index;column:quiz_id" json:"quizId"`
	TopicID        uuid.UUID                         `gorm:"type:uuid;not null;index;column:topic_id" json:"topicId"`
	CourseID       uuid.UUID                         `gorm:"type:uuid;not null;column:course_id" json:"courseId"`
	Score          int                               `gorm:"not null;column:score" json:"score"`
	TotalQuestions int                               `gorm:"not null;column:total_questions" json:"totalQuestions"`
	Answers        datatypes.JSONSlice[AnswerDetail] `gorm:"not null;column:answers" json:"answers"`
	SubmittedAt    time.Time                         `gorm:"not null;index;column:submitted_at" json:"submittedAt"`
}

func (ScoreRecord) TableName() string { return "score_record" }

func (s *ScoreRecord) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	return nil
}

// Percentage rounds 100*score/total half up. A record with no questions scores 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(100*score)/float64(total) + 0.5)
}

// Accuracy is the unrounded percentage used by analytics.
func (s *ScoreRecord) Accuracy() float64 {
	if s.TotalQuestions <= 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions) * 100
}
