package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type CreateCourseInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, creatorID uuid.UUID, in CreateCourseInput) (*types.Course, error)
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	PurchaseCourse(ctx context.Context, userID, courseID uuid.UUID) error
}

type courseService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	purchaseRepo repos.PurchaseRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	purchaseRepo repos.PurchaseRepo,
) CourseService {
	return &courseService{
		db:           db,
		log:          baseLog.With("service", "CourseService"),
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (cs *courseService) CreateCourse(ctx context.Context, creatorID uuid.UUID, in CreateCourseInput) (*types.Course, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := Validator().Struct(in); err != nil {
		return nil, validationError(err)
	}
	course := &types.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		CreatorID:   creatorID,
	}
	if _, err := cs.courseRepo.Create(dbctx.Of(ctx), []*types.Course{course}); err != nil {
		return nil, apierr.Internal("create_course_failed", err)
	}
	cs.log.Info("Course created", "course_id", course.ID, "creator_id", creatorID)
	return course, nil
}

func (cs *courseService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	courses, err := cs.courseRepo.List(dbctx.Of(ctx))
	if err != nil {
		return nil, apierr.Internal("list_courses_failed", err)
	}
	return courses, nil
}

func (cs *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := cs.courseRepo.GetByID(dbctx.Of(ctx), courseID)
	if err != nil {
		return nil, apierr.Internal("load_course_failed", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}
	return course, nil
}

// PurchaseCourse is idempotent; buying an owned course again is a no-op.
func (cs *courseService) PurchaseCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	if _, err := cs.GetCourse(ctx, courseID); err != nil {
		return err
	}
	err := cs.purchaseRepo.Create(dbctx.Of(ctx), []*types.Purchase{{UserID: userID, CourseID: courseID}})
	if err != nil {
		return apierr.Internal("purchase_failed", fmt.Errorf("create purchase: %w", err))
	}
	cs.log.Info("Course purchased", "user_id", userID, "course_id", courseID)
	return nil
}
