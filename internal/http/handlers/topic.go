package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type TopicHandler struct {
	topicService services.TopicService
}

func NewTopicHandler(topicService services.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// POST /topic/create
func (th *TopicHandler) CreateTopic(c *gin.Context) {
	var req services.CreateTopicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	topic, err := th.topicService.CreateTopic(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "create_topic_failed")
		return
	}
	response.RespondCreated(c, gin.H{"message": "Topic created successfully", "topic": topic})
}

// GET /topic/course/:courseId
func (th *TopicHandler) ListTopicsByCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	topics, err := th.topicService.ListTopicsByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err, "list_topics_failed")
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// GET /topic/:topicId
func (th *TopicHandler) GetTopic(c *gin.Context) {
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	topic, err := th.topicService.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		response.RespondErr(c, err, "load_topic_failed")
		return
	}
	response.RespondOK(c, gin.H{"topic": topic})
}

// PUT /topic/:topicId
func (th *TopicHandler) UpdateTopic(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	var req services.UpdateTopicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	topic, err := th.topicService.UpdateTopic(c.Request.Context(), userID, topicID, req)
	if err != nil {
		response.RespondErr(c, err, "update_topic_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Topic updated successfully", "topic": topic})
}

// DELETE /topic/:topicId
func (th *TopicHandler) DeleteTopic(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	topicID, ok := pathUUID(c, "topicId")
	if !ok {
		return
	}
	if err := th.topicService.DeleteTopic(c.Request.Context(), userID, topicID); err != nil {
		response.RespondErr(c, err, "delete_topic_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Topic deleted successfully"})
}
