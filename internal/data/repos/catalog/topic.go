package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type TopicRepo interface {
	Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error)
	GetByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.Topic, error)
	GetByID(dbc dbctx.Context, topicID uuid.UUID) (*types.Topic, error)
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Topic, error)
	Update(dbc dbctx.Context, topicID uuid.UUID, updates map[string]any) error
	SoftDeleteByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (tr *topicRepo) Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error) {
	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}
	if err := dbc.Resolve(tr.db).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (tr *topicRepo) GetByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.Topic, error) {
	var results []*types.Topic
	if len(topicIDs) == 0 {
		return results, nil
	}
	if err := dbc.Resolve(tr.db).
		Where("id IN ?", topicIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when the topic does not exist.
func (tr *topicRepo) GetByID(dbc dbctx.Context, topicID uuid.UUID) (*types.Topic, error) {
	rows, err := tr.GetByIDs(dbc, []uuid.UUID{topicID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// GetByCourseIDs returns topics newest first.
func (tr *topicRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Topic, error) {
	var results []*types.Topic
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := dbc.Resolve(tr.db).
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *topicRepo) Update(dbc dbctx.Context, topicID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Resolve(tr.db).
		Model(&types.Topic{}).
		Where("id = ?", topicID).
		Updates(updates).Error
}

func (tr *topicRepo) SoftDeleteByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) error {
	if len(topicIDs) == 0 {
		return nil
	}
	return dbc.Resolve(tr.db).
		Where("id IN ?", topicIDs).
		Delete(&types.Topic{}).Error
}
