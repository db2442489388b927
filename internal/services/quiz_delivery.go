package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type QuizDeliveryService interface {
	// FetchForTopic returns the topic's quiz with every correct answer removed.
	FetchForTopic(ctx context.Context, topicID uuid.UUID) (*types.SanitizedQuiz, error)
	// ListUserScores returns the user's records newest first, labelled with topic and course titles.
	ListUserScores(ctx context.Context, userID uuid.UUID) ([]*ScoreView, error)
}

const unknownCourseTitle = "Unknown Course"

// ScoreView is a score record plus the titles it refers to.
type ScoreView struct {
	*types.ScoreRecord
	TopicTitle  string `json:"topicTitle"`
	CourseTitle string `json:"courseTitle"`
}

type quizDeliveryService struct {
	db              *gorm.DB
	log             *logger.Logger
	quizRepo        repos.QuizRepo
	scoreRecordRepo repos.ScoreRecordRepo
	topicRepo       repos.TopicRepo
	courseRepo      repos.CourseRepo
}

func NewQuizDeliveryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	quizRepo repos.QuizRepo,
	scoreRecordRepo repos.ScoreRecordRepo,
	topicRepo repos.TopicRepo,
	courseRepo repos.CourseRepo,
) QuizDeliveryService {
	return &quizDeliveryService{
		db:              db,
		log:             baseLog.With("service", "QuizDeliveryService"),
		quizRepo:        quizRepo,
		scoreRecordRepo: scoreRecordRepo,
		topicRepo:       topicRepo,
		courseRepo:      courseRepo,
	}
}

func (qd *quizDeliveryService) FetchForTopic(ctx context.Context, topicID uuid.UUID) (*types.SanitizedQuiz, error) {
	quiz, err := qd.quizRepo.GetByTopicID(dbctx.Of(ctx), topicID)
	if err != nil {
		return nil, apierr.Internal("load_quiz_failed", err)
	}
	if quiz == nil {
		return nil, apierr.NotFound("quiz_not_found", "Quiz not found for this topic")
	}
	out := quiz.Sanitize()
	return &out, nil
}

func (qd *quizDeliveryService) ListUserScores(ctx context.Context, userID uuid.UUID) ([]*ScoreView, error) {
	dbc := dbctx.Of(ctx)
	records, err := qd.scoreRecordRepo.GetByUserID(dbc, userID)
	if err != nil {
		return nil, apierr.Internal("load_scores_failed", err)
	}
	out := make([]*ScoreView, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}

	topicIDs, courseIDs := make([]uuid.UUID, 0, len(records)), make([]uuid.UUID, 0, len(records))
	seen := map[uuid.UUID]bool{}
	for _, r := range records {
		if !seen[r.TopicID] {
			seen[r.TopicID] = true
			topicIDs = append(topicIDs, r.TopicID)
		}
		if !seen[r.CourseID] {
			seen[r.CourseID] = true
			courseIDs = append(courseIDs, r.CourseID)
		}
	}
	topics, err := qd.topicRepo.GetByIDs(dbc, topicIDs)
	if err != nil {
		return nil, apierr.Internal("load_topics_failed", err)
	}
	courses, err := qd.courseRepo.GetByIDs(dbc, courseIDs)
	if err != nil {
		return nil, apierr.Internal("load_courses_failed", err)
	}
	titles := make(map[uuid.UUID]string, len(topics)+len(courses))
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	for _, r := range records {
		view := &ScoreView{ScoreRecord: r, TopicTitle: unknownTopicTitle, CourseTitle: unknownCourseTitle}
		if title, ok := titles[r.TopicID]; ok {
			view.TopicTitle = title
		}
		if title, ok := titles[r.CourseID]; ok {
			view.CourseTitle = title
		}
		out = append(out, view)
	}
	return out, nil
}
