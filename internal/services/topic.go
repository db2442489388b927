package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type CreateTopicInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    uuid.UUID `json:"courseId"`
}

// UpdateTopicInput applies only the non-empty fields.
type UpdateTopicInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TopicService interface {
	CreateTopic(ctx context.Context, in CreateTopicInput) (*types.Topic, error)
	ListTopicsByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Topic, error)
	GetTopic(ctx context.Context, topicID uuid.UUID) (*types.Topic, error)
	UpdateTopic(ctx context.Context, callerID, topicID uuid.UUID, in UpdateTopicInput) (*types.Topic, error)
	DeleteTopic(ctx context.Context, callerID, topicID uuid.UUID) error
}

type topicService struct {
	db         *gorm.DB
	log        *logger.Logger
	topicRepo  repos.TopicRepo
	courseRepo repos.CourseRepo
}

func NewTopicService(
	db *gorm.DB,
	baseLog *logger.Logger,
	topicRepo repos.TopicRepo,
	courseRepo repos.CourseRepo,
) TopicService {
	return &topicService{
		db:         db,
		log:        baseLog.With("service", "TopicService"),
		topicRepo:  topicRepo,
		courseRepo: courseRepo,
	}
}

func (ts *topicService) CreateTopic(ctx context.Context, in CreateTopicInput) (*types.Topic, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || in.CourseID == uuid.Nil {
		return nil, &apierr.Error{Status: http.StatusBadRequest, Code: "invalid_request", Message: "All fields are required"}
	}
	course, err := ts.courseRepo.GetByID(dbctx.Of(ctx), in.CourseID)
	if err != nil {
		return nil, apierr.Internal("create_topic_failed", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}
	topic := &types.Topic{Title: in.Title, Description: in.Description, CourseID: course.ID}
	if _, err := ts.topicRepo.Create(dbctx.Of(ctx), []*types.Topic{topic}); err != nil {
		return nil, apierr.Internal("create_topic_failed", err)
	}
	ts.log.Info("Topic created", "topic_id", topic.ID, "course_id", course.ID)
	return topic, nil
}

func (ts *topicService) ListTopicsByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Topic, error) {
	topics, err := ts.topicRepo.GetByCourseIDs(dbctx.Of(ctx), []uuid.UUID{courseID})
	if err != nil {
		return nil, apierr.Internal("list_topics_failed", err)
	}
	if topics == nil {
		topics = []*types.Topic{}
	}
	return topics, nil
}

func (ts *topicService) GetTopic(ctx context.Context, topicID uuid.UUID) (*types.Topic, error) {
	topic, err := ts.topicRepo.GetByID(dbctx.Of(ctx), topicID)
	if err != nil {
		return nil, apierr.Internal("load_topic_failed", err)
	}
	if topic == nil {
		return nil, apierr.NotFound("topic_not_found", "Topic not found")
	}
	return topic, nil
}

func (ts *topicService) UpdateTopic(ctx context.Context, callerID, topicID uuid.UUID, in UpdateTopicInput) (*types.Topic, error) {
	topic, err := ts.ownedTopic(ctx, callerID, topicID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if t := strings.TrimSpace(in.Title); t != "" {
		updates["title"] = t
		topic.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		updates["description"] = d
		topic.Description = d
	}
	if len(updates) == 0 {
		return topic, nil
	}
	if err := ts.topicRepo.Update(dbctx.Of(ctx), topic.ID, updates); err != nil {
		return nil, apierr.Internal("update_topic_failed", err)
	}
	return ts.GetTopic(ctx, topic.ID)
}

func (ts *topicService) DeleteTopic(ctx context.Context, callerID, topicID uuid.UUID) error {
	topic, err := ts.ownedTopic(ctx, callerID, topicID)
	if err != nil {
		return err
	}
	if err := ts.topicRepo.SoftDeleteByIDs(dbctx.Of(ctx), []uuid.UUID{topic.ID}); err != nil {
		return apierr.Internal("delete_topic_failed", err)
	}
	ts.log.Info("Topic deleted", "topic_id", topic.ID)
	return nil
}

// ownedTopic loads the topic and checks that callerID authored its course.
func (ts *topicService) ownedTopic(ctx context.Context, callerID, topicID uuid.UUID) (*types.Topic, error) {
	topic, err := ts.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	course, err := ts.courseRepo.GetByID(dbctx.Of(ctx), topic.CourseID)
	if err != nil {
		return nil, apierr.Internal("load_course_failed", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}
	if course.CreatorID != callerID {
		return nil, apierr.Forbidden("not_course_creator", "Only the course creator can modify its topics")
	}
	return topic, nil
}
