package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.Resolve(cr.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (cr *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := dbc.Resolve(cr.db).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when the course does not exist.
func (cr *courseRepo) GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	rows, err := cr.GetByIDs(dbc, []uuid.UUID{courseID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (cr *courseRepo) List(dbc dbctx.Context) ([]*types.Course, error) {
	var results []*types.Course
	if err := dbc.Resolve(cr.db).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
