package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnpath-backend/internal/platform/llm"
	"github.com/yungbote/learnpath-backend/internal/platform/lock"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	DefaultQuizQuestions = 5
	DefaultQuizMax       = 20

	msgQuizGenerationFailed = "Failed to generate quiz"
)

type QuizGenerationConfig struct {
	DefaultQuestions int
	MaxQuestions     int
}

type QuizGenerationService interface {
	// Generate returns the topic's quiz, creating it through the provider when absent.
	// created reports whether this call stored a new quiz.
	Generate(ctx context.Context, topicID uuid.UUID, numQuestions int) (quiz *types.Quiz, created bool, err error)
}

type quizGenerationService struct {
	db         *gorm.DB
	log        *logger.Logger
	topicRepo  repos.TopicRepo
	courseRepo repos.CourseRepo
	quizRepo   repos.QuizRepo
	generator  llm.Generator
	locker     lock.Locker
	cfg        QuizGenerationConfig
	group      singleflight.Group
}

type generateResult struct {
	quiz    *types.Quiz
	created bool
}

func NewQuizGenerationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	topicRepo repos.TopicRepo,
	courseRepo repos.CourseRepo,
	quizRepo repos.QuizRepo,
	generator llm.Generator,
	locker lock.Locker,
	cfg QuizGenerationConfig,
) QuizGenerationService {
	if cfg.DefaultQuestions <= 0 {
		cfg.DefaultQuestions = DefaultQuizQuestions
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultQuizMax
	}
	if cfg.DefaultQuestions > cfg.MaxQuestions {
		cfg.DefaultQuestions = cfg.MaxQuestions
	}
	if locker == nil {
		locker = lock.Nop{}
	}
	return &quizGenerationService{
		db:         db,
		log:        baseLog.With("service", "QuizGenerationService"),
		topicRepo:  topicRepo,
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		generator:  generator,
		locker:     locker,
		cfg:        cfg,
	}
}

func (qs *quizGenerationService) Generate(ctx context.Context, topicID uuid.UUID, numQuestions int) (*types.Quiz, bool, error) {
	if numQuestions <= 0 {
		numQuestions = qs.cfg.DefaultQuestions
	}
	if numQuestions > qs.cfg.MaxQuestions {
		return nil, false, &apierr.Error{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: fmt.Sprintf("numQuestions must be at most %d", qs.cfg.MaxQuestions),
		}
	}

	topic, err := qs.topicRepo.GetByID(dbctx.Of(ctx), topicID)
	if err != nil {
		return nil, false, apierr.Internal("load_topic_failed", err)
	}
	if topic == nil {
		return nil, false, apierr.NotFound("topic_not_found", "Topic not found")
	}
	course, err := qs.courseRepo.GetByID(dbctx.Of(ctx), topic.CourseID)
	if err != nil {
		return nil, false, apierr.Internal("load_course_failed", err)
	}
	if course == nil {
		return nil, false, apierr.NotFound("course_not_found", "Course not found")
	}

	if existing, err := qs.quizRepo.GetByTopicID(dbctx.Of(ctx), topic.ID); err != nil {
		return nil, false, apierr.Internal("load_quiz_failed", err)
	} else if existing != nil {
		return existing, false, nil
	}

	// Only the caller whose func ran the flight reports created=true.
	led := false
	v, err, _ := qs.group.Do(topic.ID.String(), func() (any, error) {
		led = true
		return qs.generateLocked(ctx, topic, course, numQuestions)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(*generateResult)
	return res.quiz, res.created && led, nil
}

func (qs *quizGenerationService) generateLocked(ctx context.Context, topic *types.Topic, course *types.Course, numQuestions int) (*generateResult, error) {
	log := qs.log.With(ctxutil.LogFields(ctx)...)
	unlock, err := qs.locker.Lock(ctx, "quiz:topic:"+topic.ID.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("Quiz generation lock unavailable, continuing without it", "topic_id", topic.ID, "error", err)
	}
	defer unlock()

	// Another process may have finished while we waited on the lock.
	if existing, err := qs.quizRepo.GetByTopicID(dbctx.Of(ctx), topic.ID); err != nil {
		return nil, apierr.Internal("load_quiz_failed", err)
	} else if existing != nil {
		return &generateResult{quiz: existing}, nil
	}

	text, err := qs.generator.Generate(ctx, quizPrompt(topic, course, numQuestions))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Error("Quiz provider failed", "topic_id", topic.ID, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "provider_failure", err).WithMessage(msgQuizGenerationFailed)
	}

	questions, err := parseQuizPayload(text)
	if err != nil {
		log.Warn("Quiz provider returned an unusable payload", "topic_id", topic.ID, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "invalid_provider_response", err).WithMessage(msgQuizGenerationFailed)
	}
	if len(questions) != numQuestions {
		log.Warn("Quiz question count differs from request",
			"topic_id", topic.ID, "requested", numQuestions, "received", len(questions))
	}

	stored, created, err := qs.quizRepo.CreateIfAbsent(dbctx.Of(ctx), &types.Quiz{
		TopicID:   topic.ID,
		CourseID:  course.ID,
		Questions: questions,
	})
	if err != nil {
		return nil, apierr.Internal("create_quiz_failed", err)
	}
	if created {
		log.Info("Quiz generated", "topic_id", topic.ID, "quiz_id", stored.ID, "questions", len(stored.Questions))
	}
	return &generateResult{quiz: stored, created: created}, nil
}
