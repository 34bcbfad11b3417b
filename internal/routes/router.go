package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/handler"
	"github.com/noah-isme/aiws-admin-api/internal/middleware"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/service"
)

// Handlers bundles every HTTP handler mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Employees  *handler.EmployeeHandler
	Courses    *handler.CourseHandler
	Leads      *handler.LeadHandler
	Students   *handler.StudentHandler
	Payments   *handler.PaymentHandler
	Financials *handler.FinancialHandler
	Dashboard  *handler.DashboardHandler
	Exports    *handler.ExportHandler
	Metrics    *handler.MetricsHandler
}

// Options carries the cross-cutting dependencies of the route table.
type Options struct {
	APIPrefix  string
	EnableDocs bool
	Tokens     middleware.TokenValidator
	Audit      middleware.AuditRecorder
	Metrics    *service.MetricsService
	Logger     *zap.Logger
}

// Register mounts the public probes and the versioned API onto r.
func Register(r *gin.Engine, h Handlers, opts Options) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	auth.POST("/sign-in", h.Auth.SignIn)
	auth.POST("/sign-up", h.Auth.SignUp)
	auth.POST("/refresh", h.Auth.Refresh)

	session := auth.Group("")
	session.Use(middleware.JWT(opts.Tokens))
	session.POST("/sign-out", h.Auth.SignOut)
	session.GET("/session", h.Auth.Session)
	session.GET("/role", h.Auth.Role)
	session.POST("/change-password", h.Auth.ChangePassword)

	secured := api.Group("")
	secured.Use(middleware.JWT(opts.Tokens), middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))

	audited := func(resource string) gin.HandlerFunc {
		return middleware.Audit(opts.Audit, opts.Logger, models.AuditActionDelete, resource)
	}

	employees := secured.Group("/employees")
	employees.GET("", h.Employees.List)
	employees.POST("", h.Employees.Create)
	employees.GET("/:id", h.Employees.Get)
	employees.PUT("/:id", h.Employees.Update)
	employees.DELETE("/:id", audited(service.EntityEmployees), h.Employees.Delete)

	courses := secured.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", audited(service.EntityCourses), h.Courses.Delete)

	leads := secured.Group("/leads")
	leads.GET("", h.Leads.List)
	leads.POST("", h.Leads.Create)
	leads.GET("/:id", h.Leads.Get)
	leads.PUT("/:id", h.Leads.Update)
	leads.DELETE("/:id", audited(service.EntityLeads), h.Leads.Delete)

	students := secured.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/stats", h.Students.Stats)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", audited(service.EntityStudents), h.Students.Delete)
	students.GET("/:id/payments", h.Payments.List)
	students.POST("/:id/payments", h.Payments.Record)

	secured.DELETE("/payments/:id", audited(service.EntityPayments), h.Payments.Delete)

	financials := secured.Group("/financial-periods")
	financials.GET("", h.Financials.List)
	financials.GET("/:id", h.Financials.Get)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	financials.POST("", adminOnly, h.Financials.Create)
	financials.PUT("/:id", adminOnly, h.Financials.Update)
	financials.DELETE("/:id", adminOnly, audited(service.EntityFinancial), h.Financials.Delete)

	dashboard := secured.Group("/dashboard")
	dashboard.GET("", h.Dashboard.Overview)
	dashboard.GET("/students", h.Dashboard.Students)
	dashboard.GET("/pipeline", h.Dashboard.Pipeline)

	// "all" is handled by the same parameterised route.
	secured.GET("/exports/:entity", h.Exports.Download)
}
