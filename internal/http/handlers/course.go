package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// POST /courses
func (ch *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.CreateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := ch.courseService.CreateCourse(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondErr(c, err, "create_course_failed")
		return
	}
	response.RespondCreated(c, gin.H{"message": "Course created successfully", "course": course})
}

// GET /courses
func (ch *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := ch.courseService.ListCourses(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err, "list_courses_failed")
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /courses/:courseId
func (ch *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	course, err := ch.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err, "load_course_failed")
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /courses/:courseId/purchase
func (ch *CourseHandler) PurchaseCourse(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	if err := ch.courseService.PurchaseCourse(c.Request.Context(), userID, courseID); err != nil {
		response.RespondErr(c, err, "purchase_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Course purchased successfully", "courseId": courseID})
}
