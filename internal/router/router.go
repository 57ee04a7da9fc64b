package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/schoolhub-ng/schoolhub-api/internal/handler"
	"github.com/schoolhub-ng/schoolhub-api/internal/middleware"
	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	"github.com/schoolhub-ng/schoolhub-api/internal/repository"
	"github.com/schoolhub-ng/schoolhub-api/internal/service"
	"github.com/schoolhub-ng/schoolhub-api/pkg/config"
	"github.com/schoolhub-ng/schoolhub-api/pkg/logger"
	corsmiddleware "github.com/schoolhub-ng/schoolhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolhub-ng/schoolhub-api/pkg/middleware/requestid"
	"go.uber.org/zap"
)

// Dependencies collects everything the router needs to register routes.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Users     *repository.UserRepository
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Teacher   *service.TeacherService
	Review    *service.ReviewService
	Parent    *service.ParentService
	School    *service.SchoolService
	Directory *service.DirectoryService
	Export    *service.ExportService
	Metrics   *service.MetricsService
}

// New builds the gin engine with all routes registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	authHandler := handler.NewAuthHandler(deps.Auth)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	teacherHandler := handler.NewTeacherHandler(deps.Teacher)
	reviewHandler := handler.NewReviewHandler(deps.Review, deps.Export)
	parentHandler := handler.NewParentHandler(deps.Parent)
	schoolHandler := handler.NewSchoolHandler(deps.School)
	directoryHandler := handler.NewDirectoryHandler(deps.Directory)
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))
	{
		authed.POST("/auth/logout",
			middleware.Audit(deps.Users, models.AuditActionLogout, "session"),
			authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/dashboard", dashboardHandler.Resolve)
		authed.GET("/dashboard/teacher",
			middleware.RequireRoles(models.RoleTeacher),
			dashboardHandler.Teacher)
		authed.GET("/dashboard/head-teacher",
			middleware.RequireRoles(models.RoleHeadTeacher),
			dashboardHandler.HeadTeacher)
		authed.GET("/dashboard/parent",
			middleware.RequireRoles(models.RoleParent),
			dashboardHandler.Parent)
		authed.GET("/dashboard/overview",
			middleware.RequireRoles(models.RoleProprietor, models.RoleViceAdmin, models.RoleViceAcademics),
			dashboardHandler.Overview)
	}

	teacher := api.Group("/teacher")
	teacher.Use(middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.GET("/profile", teacherHandler.Profile)
		teacher.PUT("/courses", teacherHandler.UpdateCourses)
		teacher.GET("/lesson-plans", teacherHandler.MyPlans)
		teacher.POST("/lesson-plans", teacherHandler.SubmitPlan)
	}

	review := api.Group("/review")
	review.Use(middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleHeadTeacher))
	{
		review.GET("/lesson-plans", reviewHandler.Pending)
		review.GET("/lesson-plans/export", reviewHandler.Export)
		review.POST("/lesson-plans/:id", reviewHandler.Decide)
	}

	parent := api.Group("/parent")
	parent.Use(middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleParent))
	{
		parent.GET("/children", parentHandler.Children)
		parent.GET("/assignments", parentHandler.Assignments)
	}

	parentLinks := api.Group("/parents")
	parentLinks.Use(middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleTeacher, models.RoleHeadTeacher))
	{
		parentLinks.POST("/:userId/children/:studentId", parentHandler.AttachChild)
		parentLinks.DELETE("/:userId/children/:studentId", parentHandler.DetachChild)
	}

	schools := api.Group("/schools")
	schools.Use(middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleProprietor))
	{
		schools.POST("", schoolHandler.Create)
		schools.GET("", schoolHandler.List)
		schools.GET("/:id", schoolHandler.Get)
		schools.DELETE("/:id", schoolHandler.Delete)
	}

	// Directory reads are open to every staff role; the service narrows
	// writes down to teachers and head teachers.
	staff := middleware.RequireRoles(
		models.RoleProprietor,
		models.RoleHeadTeacher,
		models.RoleViceAdmin,
		models.RoleViceAcademics,
		models.RoleTeacher,
	)
	directory := api.Group("")
	directory.Use(middleware.JWT(deps.Auth), staff)
	{
		directory.GET("/students", directoryHandler.ListStudents)
		directory.POST("/students", directoryHandler.CreateStudent)
		directory.GET("/students/:id", directoryHandler.GetStudent)
		directory.PUT("/students/:id", directoryHandler.UpdateStudent)
		directory.DELETE("/students/:id", directoryHandler.DeleteStudent)
		directory.POST("/students/:id/courses/:courseId", directoryHandler.EnrollStudent)
		directory.POST("/students/:id/clubs/:clubId", directoryHandler.JoinClub)

		directory.GET("/courses", directoryHandler.ListCourses)
		directory.POST("/courses", directoryHandler.CreateCourse)
		directory.DELETE("/courses/:id", directoryHandler.DeleteCourse)

		directory.GET("/clubs", directoryHandler.ListClubs)
		directory.POST("/clubs", directoryHandler.CreateClub)
		directory.GET("/clubs/:id/members", directoryHandler.ClubMembers)
		directory.DELETE("/clubs/:id", directoryHandler.DeleteClub)

		directory.GET("/assignments", directoryHandler.ListAssignments)
		directory.POST("/assignments", directoryHandler.CreateAssignment)
		directory.DELETE("/assignments/:id", directoryHandler.DeleteAssignment)
	}

	return r
}
