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

type PurchasesView struct {
	Purchased  []uuid.UUID     `json:"purchased"`
	CourseData []*types.Course `json:"courseData"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Purchases(ctx context.Context, userID uuid.UUID) (*PurchasesView, error)
}

type userService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	purchaseRepo repos.PurchaseRepo
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	purchaseRepo repos.PurchaseRepo,
) UserService {
	return &userService{
		db:           db,
		log:          baseLog.With("service", "UserService"),
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(dbctx.Of(ctx), []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Internal("load_user_failed", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", "User not found")
	}
	return users[0], nil
}

// Purchases lists the purchased course ids in purchase order, with the courses that still exist.
func (us *userService) Purchases(ctx context.Context, userID uuid.UUID) (*PurchasesView, error) {
	purchases, err := us.purchaseRepo.GetByUserID(dbctx.Of(ctx), userID)
	if err != nil {
		return nil, apierr.Internal("load_purchases_failed", err)
	}
	view := &PurchasesView{Purchased: make([]uuid.UUID, 0, len(purchases)), CourseData: []*types.Course{}}
	for _, p := range purchases {
		view.Purchased = append(view.Purchased, p.CourseID)
	}
	if len(view.Purchased) == 0 {
		return view, nil
	}
	courses, err := us.courseRepo.GetByIDs(dbctx.Of(ctx), view.Purchased)
	if err != nil {
		return nil, apierr.Internal("load_purchases_failed", err)
	}
	byID := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	for _, id := range view.Purchased {
		if c, ok := byID[id]; ok {
			view.CourseData = append(view.CourseData, c)
		}
	}
	return view, nil
}
