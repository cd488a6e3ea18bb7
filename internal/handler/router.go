package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/middleware"
	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/training-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/training-crm-api/pkg/middleware/requestid"
)

// RouterParams carries every dependency the HTTP surface needs.
type RouterParams struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Auth      *service.AuthService
	Students  *service.StudentService
	Courses   *service.CourseService
	Leads     *service.LeadService
	Schedule  *service.ScheduleService
	Staff     *service.StaffService
	Dashboard *service.DashboardService
	Finance   *service.FinanceService
	Assistant *service.AssistantService
	Settings  *service.SettingsService
	Exports   *service.ExportService
	Metrics   *service.MetricsService
	Ready     ReadinessCheck

	Logger *zap.Logger
}

// NewRouter assembles the gin engine with the CRM routes under APIPrefix.
func NewRouter(p RouterParams) *gin.Engine {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.APIPrefix == "" {
		p.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(p.Logger))
	r.Use(corsmiddleware.New(p.AllowedOrigins))
	r.Use(middleware.Metrics(p.Metrics))

	ops := NewMetricsHandler(p.Metrics, p.Ready)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)
	r.GET("/metrics/summary", ops.Snapshot)

	if p.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := NewAuthHandler(p.Auth)
	students := NewStudentHandler(p.Students, p.Exports)
	courses := NewCourseHandler(p.Courses)
	leads := NewLeadHandler(p.Leads)
	schedule := NewScheduleHandler(p.Schedule)
	staff := NewStaffHandler(p.Staff)
	dashboard := NewDashboardHandler(p.Dashboard, p.Finance)
	assistant := NewAssistantHandler(p.Assistant)
	settings := NewSettingsHandler(p.Settings)

	api := r.Group(p.APIPrefix)
	api.Use(middleware.Language(p.Settings))

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/session", authHandler.Session)

	secured := api.Group("")
	secured.Use(middleware.Auth(p.Auth))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.PATCH("/auth/profile", authHandler.UpdateProfile)

	secured.GET("/students", students.List)
	secured.POST("/students", students.Create)
	secured.GET("/students/export", students.Export)
	secured.GET("/students/:id", students.Get)
	secured.PATCH("/students/:id", students.Update)
	secured.DELETE("/students/:id", students.Delete)

	secured.GET("/courses", courses.List)
	secured.POST("/courses", courses.Create)
	secured.GET("/courses/:id", courses.Get)
	secured.PATCH("/courses/:id", courses.Update)
	secured.DELETE("/courses/:id", courses.Delete)

	secured.GET("/leads", leads.List)
	secured.POST("/leads", leads.Create)
	secured.GET("/leads/pipeline", leads.Pipeline)
	secured.PATCH("/leads/:id", leads.Update)
	secured.PATCH("/leads/:id/status", leads.UpdateStatus)
	secured.DELETE("/leads/:id", leads.Delete)

	secured.GET("/schedule", schedule.List)
	secured.POST("/schedule", schedule.Create)
	secured.GET("/schedule/by-day", schedule.ByDay)
	secured.PATCH("/schedule/:id", schedule.Update)
	secured.DELETE("/schedule/:id", schedule.Delete)

	director := secured.Group("/staff")
	director.Use(middleware.RequireRoles(models.RoleDirector))
	director.GET("", staff.List)
	director.POST("", staff.Create)
	director.PUT("/:id/code", staff.ResetCode)
	director.DELETE("/:id", staff.Delete)

	secured.GET("/dashboard", dashboard.Summary)
	secured.GET("/finance/pending", dashboard.PendingPayments)

	secured.POST("/assistant/ask", assistant.Ask)
	secured.GET("/assistant/suggestions", assistant.Suggestions)

	secured.GET("/settings", settings.Get)
	secured.PUT("/settings", settings.Update)

	return r
}
