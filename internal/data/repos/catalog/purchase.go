package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type PurchaseRepo interface {
	// Create ignores purchases the user already holds.
	Create(dbc dbctx.Context, purchases []*types.Purchase) error
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error)
	Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	repoLog := baseLog.With("repo", "PurchaseRepo")
	return &purchaseRepo{db: db, log: repoLog}
}

func (pr *purchaseRepo) Create(dbc dbctx.Context, purchases []*types.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return dbc.Resolve(pr.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(&purchases).Error
}

func (pr *purchaseRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error) {
	var results []*types.Purchase
	if err := dbc.Resolve(pr.db).
		Where("user_id = ?", userID).
		Order("purchased_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *purchaseRepo) Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.Resolve(pr.db).
		Model(&types.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
