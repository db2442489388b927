package assessment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type ScoreRecordRepo interface {
	Create(dbc dbctx.Context, records []*types.ScoreRecord) ([]*types.ScoreRecord, error)
	// GetByUserID returns the user's records, newest first.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.ScoreRecord, error)
}

type scoreRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRecordRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRecordRepo {
	repoLog := baseLog.With("repo", "ScoreRecordRepo")
	return &scoreRecordRepo{db: db, log: repoLog}
}

func (sr *scoreRecordRepo) Create(dbc dbctx.Context, records []*types.ScoreRecord) ([]*types.ScoreRecord, error) {
	if len(records) == 0 {
		return []*types.ScoreRecord{}, nil
	}
	if err := dbc.Resolve(sr.db).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (sr *scoreRecordRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.ScoreRecord, error) {
	var results []*types.ScoreRecord
	if err := dbc.Resolve(sr.db).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
