package assessment

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type QuizRepo interface {
	// CreateIfAbsent inserts quiz unless its topic already has one. It returns the
	// stored quiz for the topic and whether this call inserted it.
	CreateIfAbsent(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, bool, error)
	GetByIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.Quiz, error)
	GetByID(dbc dbctx.Context, quizID uuid.UUID) (*types.Quiz, error)
	GetByTopicID(dbc dbctx.Context, topicID uuid.UUID) (*types.Quiz, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func (qr *quizRepo) CreateIfAbsent(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, bool, error) {
	if quiz == nil || quiz.TopicID == uuid.Nil {
		return nil, false, fmt.Errorf("quiz requires a topic id")
	}
	res := dbc.Resolve(qr.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic_id"}},
			DoNothing: true,
		}).
		Create(quiz)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return quiz, true, nil
	}

	existing, err := qr.GetByTopicID(dbc, quiz.TopicID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("quiz insert for topic %s conflicted but no row found", quiz.TopicID)
	}
	qr.log.Debug("Quiz already present for topic", "topic_id", quiz.TopicID, "quiz_id", existing.ID)
	return existing, false, nil
}

func (qr *quizRepo) GetByIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.Quiz, error) {
	var results []*types.Quiz
	if len(quizIDs) == 0 {
		return results, nil
	}
	if err := dbc.Resolve(qr.db).
		Where("id IN ?", quizIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when the quiz does not exist.
func (qr *quizRepo) GetByID(dbc dbctx.Context, quizID uuid.UUID) (*types.Quiz, error) {
	rows, err := qr.GetByIDs(dbc, []uuid.UUID{quizID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// GetByTopicID returns nil, nil when the topic has no quiz.
func (qr *quizRepo) GetByTopicID(dbc dbctx.Context, topicID uuid.UUID) (*types.Quiz, error) {
	var results []*types.Quiz
	if err := dbc.Resolve(qr.db).
		Where("topic_id = ?", topicID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
