package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/middleware"
	"github.com/YasmaniJob/beeclass/internal/models"
)

// Handlers bundles every handler mounted under the API prefix.
type Handlers struct {
	Provider      *ProviderHandler
	Students      *StudentHandler
	Staff         *StaffHandler
	Transactional *TransactionalHandler
	Academic      *AcademicHandler
	Editor        *EditorHandler
	Exports       *ExportHandler
	UserAdmin     *UserAdminHandler
	Metrics       *MetricsHandler
}

var (
	directive = []models.UserRole{models.RoleAdmin, models.RoleDirector, models.RoleSubDirector, models.RoleCoordinator}
	everyone  = append(append([]models.UserRole{}, directive...), models.RoleTeacher, models.RoleAuxiliary)
)

// Register mounts the ops endpoints on r and the API under prefix behind auth.
func Register(r *gin.Engine, prefix string, h Handlers, tokens middleware.TokenValidator, audit gin.HandlerFunc) {
	if prefix == "" {
		prefix = "/api/v1"
	}
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.JWT(tokens))
	if audit != nil {
		api.Use(audit)
	}

	read := api.Group("", middleware.RequireRoles(everyone...))
	read.GET("/state", h.Provider.State)
	read.GET("/areas", h.Provider.Areas)
	read.GET("/levels", h.Provider.Levels)
	read.GET("/grade-sections", h.Provider.GradeSections)
	read.GET("/students", h.Students.List)
	read.GET("/staff", h.Staff.List)
	read.GET("/staff/:id", h.Staff.Get)
	read.POST("/state/refresh/:collection", h.Provider.Refresh)
	read.POST("/attendance", h.Transactional.Attendance)
	read.POST("/incidents", h.Transactional.Incident)
	read.POST("/permits", h.Transactional.Permit)
	read.GET("/exports/students", h.Exports.Students)
	read.POST("/sessions", h.Academic.CreateSession)
	read.GET("/grades", h.Academic.ListGrades)
	read.POST("/grades", h.Academic.RecordGrade)

	manage := api.Group("", middleware.RequireRoles(directive...))
	manage.POST("/students", h.Students.Create)
	manage.PUT("/students/:id", h.Students.Update)
	manage.DELETE("/students/:id", h.Students.Delete)
	manage.POST("/staff", h.Staff.Create)
	manage.PUT("/staff/:id", h.Staff.Update)
	manage.DELETE("/staff/:id", h.Staff.Delete)
	manage.GET("/exports/staff", h.Exports.Staff)
	manage.POST("/areas", h.Academic.CreateArea)
	manage.POST("/grade-sections", h.Academic.CreateGradeSection)
	manage.DELETE("/grade-sections/:id", h.Academic.DeleteGradeSection)

	manage.POST("/staff/:id/editor", h.Editor.Open)
	manage.GET("/editor/:sid", h.Editor.Get)
	manage.POST("/editor/:sid/tutor", h.Editor.Tutor)
	manage.POST("/editor/:sid/subject", h.Editor.Subject)
	manage.POST("/editor/:sid/areas", h.Editor.Areas)
	manage.POST("/editor/:sid/auxiliary", h.Editor.Auxiliary)
	manage.POST("/editor/:sid/save", h.Editor.Save)
	manage.DELETE("/editor/:sid", h.Editor.Close)

	admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/users/delete", h.UserAdmin.DeleteUser)
}
