package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type UserHandler struct {
	userService      services.UserService
	analyticsService services.AnalyticsService
}

func NewUserHandler(userService services.UserService, analyticsService services.AnalyticsService) *UserHandler {
	return &UserHandler{userService: userService, analyticsService: analyticsService}
}

// GET /user/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	me, err := uh.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "load_user_failed")
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /user/purchases
func (uh *UserHandler) Purchases(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	view, err := uh.userService.Purchases(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "list_purchases_failed")
		return
	}
	response.RespondOK(c, view)
}

// GET /user/weak-topics
func (uh *UserHandler) WeakTopics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	weak, err := uh.analyticsService.WeakTopics(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "weak_topics_failed")
		return
	}
	response.RespondOK(c, gin.H{"weakTopics": weak})
}

// GET /user/analytics
func (uh *UserHandler) Analytics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := uh.analyticsService.Analytics(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "analytics_failed")
		return
	}
	response.RespondOK(c, report)
}

// GET /user/recommendations
func (uh *UserHandler) Recommendations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recs, err := uh.analyticsService.Recommendations(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "recommendations_failed")
		return
	}
	response.RespondOK(c, recs)
}

// POST /user/explain-topic/:topicId
func (uh *UserHandler) ExplainTopic(c *gin.Context) {
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	out, err := uh.analyticsService.ExplainTopic(c.Request.Context(), topicID)
	if err != nil {
		response.RespondErr(c, err, "explain_failed")
		return
	}
	response.RespondOK(c, out)
}
