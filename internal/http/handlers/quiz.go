package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type QuizHandlerDeps struct {
	Log        *logger.Logger
	Generation services.QuizGenerationService
	Delivery   services.QuizDeliveryService
	Scoring    services.ScoringService
	Metrics    *observability.Metrics
	// PassThreshold is the percentage at which a submission counts as passed in metrics.
	PassThreshold float64
}

type QuizHandler struct {
	log           *logger.Logger
	generation    services.QuizGenerationService
	delivery      services.QuizDeliveryService
	scoring       services.ScoringService
	metrics       *observability.Metrics
	passThreshold float64
}

func NewQuizHandlerWithDeps(deps QuizHandlerDeps) *QuizHandler {
	h := &QuizHandler{
		generation:    deps.Generation,
		delivery:      deps.Delivery,
		scoring:       deps.Scoring,
		metrics:       deps.Metrics,
		passThreshold: deps.PassThreshold,
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	h.log = log.With("handler", "QuizHandler")
	if h.passThreshold <= 0 {
		h.passThreshold = services.DefaultWeakThreshold
	}
	return h
}

// bindOptionalJSON binds the body into dst, treating an empty body as absent.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// POST /quiz/generate/:topicId
func (qh *QuizHandler) Generate(c *gin.Context) {
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	var req struct {
		NumQuestions int `json:"numQuestions"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quiz, created, err := qh.generation.Generate(c.Request.Context(), topicID, req.NumQuestions)
	if err != nil {
		qh.metrics.IncQuizGeneration("failed")
		qh.log.Warn("Quiz generation failed", "topic_id", topicID, "error", err)
		response.RespondErr(c, err, "quiz_generation_failed")
		return
	}
	if !created {
		qh.metrics.IncQuizGeneration("existing")
		response.RespondOK(c, gin.H{"message": "Quiz already exists for this topic", "quiz": quiz})
		return
	}
	qh.metrics.IncQuizGeneration("created")
	response.RespondCreated(c, gin.H{"message": "Quiz generated successfully", "quiz": quiz})
}

// GET /quiz/topic/:topicId
func (qh *QuizHandler) FetchForTopic(c *gin.Context) {
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	quiz, err := qh.delivery.FetchForTopic(c.Request.Context(), topicID)
	if err != nil {
		response.RespondErr(c, err, "load_quiz_failed")
		return
	}
	response.RespondOK(c, gin.H{"quiz": quiz})
}

// POST /quiz/submit/:quizId
func (qh *QuizHandler) Submit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quizId")
	if !ok {
		return
	}
	var req struct {
		Answers []services.SubmittedAnswer `json:"answers"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := qh.scoring.Submit(c.Request.Context(), userID, quizID, req.Answers)
	if err != nil {
		response.RespondErr(c, err, "submit_failed")
		return
	}
	qh.metrics.IncQuizSubmission(float64(result.Percentage) >= qh.passThreshold)
	response.RespondOK(c, gin.H{
		"message":        "Quiz submitted successfully",
		"score":          result.Score,
		"totalQuestions": result.TotalQuestions,
		"percentage":     result.Percentage,
		"scoreRecord":    result.Record,
	})
}

// GET /quiz/scores
func (qh *QuizHandler) ListUserScores(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	scores, err := qh.delivery.ListUserScores(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "list_scores_failed")
		return
	}
	response.RespondOK(c, gin.H{"scores": scores})
}
