package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is one multiple-choice item. CorrectAnswer is always one of Options.
type Question struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,unique,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// Quiz is the generated question set for a topic. There is at most one per topic.
type Quiz struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_topic;column:topic_id" json:"topicId"`
	CourseID  uuid.UUID                     `gorm:"type:uuid;not null;index;column:course_id" json:"courseId"`
	Questions datatypes.JSONSlice[Question] `gorm:"not null;column:questions" json:"questions"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// SanitizedQuestion is a Question without its answer.
type SanitizedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SanitizedQuiz is what learners see before submitting.
type SanitizedQuiz struct {
	ID        uuid.UUID           `json:"id"`
	TopicID   uuid.UUID           `json:"topicId"`
	CourseID  uuid.UUID           `json:"courseId"`
	Questions []SanitizedQuestion `json:"questions"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Sanitize strips every correct answer from q.
func (q *Quiz) Sanitize() SanitizedQuiz {
	out := SanitizedQuiz{
		ID:        q.ID,
		TopicID:   q.TopicID,
		CourseID:  q.CourseID,
		Questions: make([]SanitizedQuestion, 0, len(q.Questions)),
		CreatedAt: q.CreatedAt,
	}
	for _, item := range q.Questions {
		opts := make([]string, len(item.Options))
		copy(opts, item.Options)
		out.Questions = append(out.Questions, SanitizedQuestion{Question: item.Question, Options: opts})
	}
	return out
}
