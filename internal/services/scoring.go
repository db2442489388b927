package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type SubmittedAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type ScoreResult struct {
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions"`
	Percentage     int                `json:"percentage"`
	Record         *types.ScoreRecord `json:"scoreRecord"`
}

type ScoringService interface {
	// Submit grades answers against the stored quiz. A nil answers slice means the
	// request carried none and is rejected; an empty one grades every question as unanswered.
	Submit(ctx context.Context, userID, quizID uuid.UUID, answers []SubmittedAnswer) (*ScoreResult, error)
}

type scoringService struct {
	db              *gorm.DB
	log             *logger.Logger
	quizRepo        repos.QuizRepo
	scoreRecordRepo repos.ScoreRecordRepo
	now             func() time.Time
}

func NewScoringService(
	db *gorm.DB,
	baseLog *logger.Logger,
	quizRepo repos.QuizRepo,
	scoreRecordRepo repos.ScoreRecordRepo,
) ScoringService {
	return &scoringService{
		db:              db,
		log:             baseLog.With("service", "ScoringService"),
		quizRepo:        quizRepo,
		scoreRecordRepo: scoreRecordRepo,
		now:             time.Now,
	}
}

func (ss *scoringService) Submit(ctx context.Context, userID, quizID uuid.UUID, answers []SubmittedAnswer) (*ScoreResult, error) {
	if answers == nil {
		return nil, &apierr.Error{Status: http.StatusBadRequest, Code: "invalid_request", Message: "answers are required"}
	}
	quiz, err := ss.quizRepo.GetByID(dbctx.Of(ctx), quizID)
	if err != nil {
		return nil, apierr.Internal("load_quiz_failed", err)
	}
	if quiz == nil {
		return nil, apierr.NotFound("quiz_not_found", "Quiz not found")
	}

	details, score := grade(quiz.Questions, answers)
	record := &types.ScoreRecord{
		UserID:         userID,
		QuizID:         quiz.ID,
		TopicID:        quiz.TopicID,
		CourseID:       quiz.CourseID,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		Answers:        details,
		SubmittedAt:    ss.now().UTC(),
	}
	if _, err := ss.scoreRecordRepo.Create(dbctx.Of(ctx), []*types.ScoreRecord{record}); err != nil {
		return nil, apierr.Internal("save_score_failed", err)
	}
	ss.log.Info("Quiz submitted", "user_id", userID, "quiz_id", quiz.ID, "score", score, "total", record.TotalQuestions)
	return &ScoreResult{
		Score:          score,
		TotalQuestions: record.TotalQuestions,
		Percentage:     types.Percentage(score, record.TotalQuestions),
		Record:         record,
	}, nil
}

// grade matches answers to questions by index. The first answer for an index wins,
// out-of-range indices are ignored and unanswered questions grade as "".
func grade(questions []types.Question, answers []SubmittedAnswer) ([]types.AnswerDetail, int) {
	selected := make(map[int]string, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			continue
		}
		if _, dup := selected[a.QuestionIndex]; dup {
			continue
		}
		selected[a.QuestionIndex] = a.SelectedAnswer
	}

	details := make([]types.AnswerDetail, len(questions))
	score := 0
	for i, q := range questions {
		pick := selected[i]
		ok := pick == q.CorrectAnswer
		if ok {
			score++
		}
		details[i] = types.AnswerDetail{
			Question:       q.Question,
			SelectedAnswer: pick,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      ok,
		}
	}
	return details, score
}
