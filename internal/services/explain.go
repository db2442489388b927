package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
)

func (as *analyticsService) ExplainTopic(ctx context.Context, topicID uuid.UUID) (*TopicExplanation, error) {
	topic, err := as.topicRepo.GetByID(dbctx.Of(ctx), topicID)
	if err != nil {
		return nil, apierr.Internal("load_topic_failed", err)
	}
	if topic == nil {
		return nil, apierr.NotFound("topic_not_found", "Topic not found")
	}
	course, err := as.courseRepo.GetByID(dbctx.Of(ctx), topic.CourseID)
	if err != nil {
		return nil, apierr.Internal("load_course_failed", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}

	text, err := as.generator.Generate(ctx, explainPrompt(topic, course))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		as.log.Error("Explanation provider failed", "topic_id", topic.ID, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "provider_failure", err).WithMessage("Failed to generate explanation")
	}
	return &TopicExplanation{TopicTitle: topic.Title, Explanation: text}, nil
}
