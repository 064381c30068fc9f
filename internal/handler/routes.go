package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub-dev/coursehub-api/internal/middleware"
	"github.com/coursehub-dev/coursehub-api/internal/service"
	"github.com/coursehub-dev/coursehub-api/pkg/config"
)

// Handlers bundles the route handlers registered on the API router.
type Handlers struct {
	Auth    *AuthHandler
	Course  *CourseHandler
	Student *StudentHandler
}

// RegisterRoutes mounts the versioned API surface under cfg.APIPrefix.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, auth *service.AuthService, h Handlers) {
	api := r.Group(cfg.APIPrefix)

	requireAuth := middleware.Auth(auth, cfg.JWT.CookieName)
	requireTeacher := middleware.RequireTeacher()

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PreventIfLoggedIn(auth, cfg.JWT.CookieName))
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
	}

	course := api.Group("/course")
	{
		course.GET("", h.Course.ListAll)
		course.GET("/:id", h.Course.Get)

		course.POST("", requireAuth, requireTeacher, h.Course.Create)
		course.PUT("/:id", requireAuth, requireTeacher, h.Course.Update)
		course.DELETE("/:id", requireAuth, requireTeacher, h.Course.Delete)
		course.GET("/teacher", requireAuth, requireTeacher, h.Course.ListMine)

		course.POST("/lesson/:id", requireAuth, requireTeacher, h.Course.AddLesson)
		course.PUT("/lesson/:id", requireAuth, requireTeacher, h.Course.UpdateLesson)
		course.DELETE("/lesson/:id", requireAuth, requireTeacher, h.Course.DeleteLesson)

		course.PUT("/enroll/:id", requireAuth, h.Course.Enroll)
		course.PUT("/rate/:id", requireAuth, h.Course.Rate)
		course.POST("/quiz/:id/join", requireAuth, h.Course.JoinQuiz)
		course.POST("/quiz/:id/check", requireAuth, h.Course.CheckQuiz)
	}

	student := api.Group("/student", requireAuth)
	{
		student.GET("/progress/:id", h.Student.Progress)
		student.GET("/certificate/:id", h.Student.Certificate)
		student.GET("/following", h.Student.Following)
		student.PUT("/follow/:id", h.Student.Follow)
		student.DELETE("/follow/:id", h.Student.Unfollow)
	}
}
