package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName    string
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler *httpH.HealthHandler
	AuthHandler   *httpH.AuthHandler
	UserHandler   *httpH.UserHandler
	CourseHandler *httpH.CourseHandler
	TopicHandler  *httpH.TopicHandler
	QuizHandler   *httpH.QuizHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	requireAdmin := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
		requireAdmin = cfg.AuthMiddleware.RequireAdmin()
	}

	api := r.Group("/api")

	user := api.Group("/user")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			user.POST("/signup", cfg.AuthHandler.Signup)
			user.POST("/login", cfg.AuthHandler.Login)
			user.POST("/refresh", cfg.AuthHandler.Refresh)
			user.POST("/logout", requireAuth, cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			user.GET("/me", requireAuth, cfg.UserHandler.GetMe)
			user.GET("/purchases", requireAuth, cfg.UserHandler.Purchases)
			user.GET("/weak-topics", requireAuth, cfg.UserHandler.WeakTopics)
			user.GET("/analytics", requireAuth, cfg.UserHandler.Analytics)
			user.GET("/recommendations", requireAuth, cfg.UserHandler.Recommendations)
			user.POST("/explain-topic/:topicId", requireAuth, cfg.UserHandler.ExplainTopic)
		}
	}

	// Courses
	if cfg.CourseHandler != nil {
		courses := api.Group("/courses")
		courses.GET("", cfg.CourseHandler.ListCourses)
		courses.GET("/:courseId", cfg.CourseHandler.GetCourse)
		courses.POST("", requireAuth, requireAdmin, cfg.CourseHandler.CreateCourse)
		courses.POST("/:courseId/purchase", requireAuth, cfg.CourseHandler.PurchaseCourse)
	}

	// Topics
	if cfg.TopicHandler != nil {
		topic := api.Group("/topic")
		topic.POST("/create", requireAuth, requireAdmin, cfg.TopicHandler.CreateTopic)
		topic.GET("/course/:courseId", cfg.TopicHandler.ListTopicsByCourse)
		topic.GET("/:topicId", cfg.TopicHandler.GetTopic)
		topic.PUT("/:topicId", requireAuth, requireAdmin, cfg.TopicHandler.UpdateTopic)
		topic.DELETE("/:topicId", requireAuth, requireAdmin, cfg.TopicHandler.DeleteTopic)
	}

	// Quizzes
	if cfg.QuizHandler != nil {
		quiz := api.Group("/quiz", requireAuth)
		quiz.POST("/generate/:topicId", cfg.QuizHandler.Generate)
		quiz.GET("/topic/:topicId", cfg.QuizHandler.FetchForTopic)
		quiz.POST("/submit/:quizId", cfg.QuizHandler.Submit)
		quiz.GET("/scores", cfg.QuizHandler.ListUserScores)
	}

	return r
}
