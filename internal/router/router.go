package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/handler"
	"github.com/campusgate/campus-erp-api/internal/middleware"
	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/repository"
	"github.com/campusgate/campus-erp-api/internal/service"
	"github.com/campusgate/campus-erp-api/pkg/config"
	"github.com/campusgate/campus-erp-api/pkg/logger"
	corsmiddleware "github.com/campusgate/campus-erp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgate/campus-erp-api/pkg/middleware/requestid"
)

// Params groups everything the router needs.
type Params struct {
	Config *config.Config
	Logger *zap.Logger

	Users *repository.UserRepository

	Auth          *service.AuthService
	Permissions   *service.PermissionService
	Navigation    *service.NavigationService
	Masters       *service.MasterService
	Options       *service.OptionsService
	Notifications *service.NotificationService
	Employees     *service.EmployeeService
	UserAccounts  *service.UserService
	Exports       *service.ExportService
	Metrics       *service.MetricsService
}

// New assembles the gin engine with all routes and middleware.
func New(p Params) *gin.Engine {
	if p.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(p.Logger))
	r.Use(corsmiddleware.New(p.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(p.Metrics))

	authHandler := handler.NewAuthHandler(p.Auth)
	permissionHandler := handler.NewPermissionHandler(p.Permissions)
	navigationHandler := handler.NewNavigationHandler(p.Navigation)
	masterHandler := handler.NewMasterHandler(p.Masters)
	optionsHandler := handler.NewOptionsHandler(p.Options)
	notificationHandler := handler.NewNotificationHandler(p.Notifications)
	employeeHandler := handler.NewEmployeeHandler(p.Employees)
	userHandler := handler.NewUserHandler(p.UserAccounts)
	exportHandler := handler.NewExportHandler(p.Exports)
	metricsHandler := handler.NewMetricsHandler(p.Metrics)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if p.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(p.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(p.Auth, p.Users))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.POST("/auth/change-password", authHandler.ChangePassword)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/navigation/landing", navigationHandler.Landing)
		authed.GET("/navigation/sidebar", navigationHandler.Sidebar)

		authed.GET("/permissions/resolve", permissionHandler.Resolve)
		authed.GET("/permissions/me", permissionHandler.Mine)

		authed.GET("/notifications/current", notificationHandler.Current)
		authed.POST("/notifications", notificationHandler.Publish)
		authed.DELETE("/notifications", notificationHandler.Dismiss)

		authed.GET("/options/:level", optionsHandler.Options)

		state := authed.Group("/options-state")
		{
			state.GET("", optionsHandler.State)
			state.POST("/select", optionsHandler.Select)
			state.POST("/clear", optionsHandler.Clear)
			state.DELETE("", optionsHandler.Reset)
		}

		admin := authed.Group("")
		admin.Use(middleware.PagePermission(p.Permissions, middleware.StaticPage(models.MenuPathPermissions)))
		{
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.Get)
			admin.GET("/permissions/users/:id", permissionHandler.ForUser)
			admin.GET("/permissions/menus", permissionHandler.MenuTree)
		}
		// Batch assignment writes require edit rights on the permission page.
		authed.PUT("/permissions/batch",
			middleware.PagePermission(p.Permissions, middleware.StaticPage(models.MenuPathPermissions)),
			middleware.Audit(p.Users, models.AuditActionUpdate, "permissions"),
			permissionHandler.BatchUpdate)

		master := authed.Group("/master")
		{
			master.GET("", masterHandler.Catalog)

			entity := master.Group("/:entity")
			entity.Use(middleware.PagePermission(p.Permissions, middleware.MasterEntityPage()))
			{
				entity.GET("/schema", masterHandler.Schema)
				entity.GET("", masterHandler.List)
				entity.GET("/:id", masterHandler.Get)
				entity.POST("", masterHandler.Create)
				entity.PUT("/:id", masterHandler.Update)
				entity.DELETE("/:id", masterHandler.Delete)
				entity.POST("/import", masterHandler.Import)
			}
		}

		employees := authed.Group("/employees")
		employees.Use(middleware.PagePermission(p.Permissions, middleware.StaticPage(models.MenuPathEmployee)))
		{
			employees.GET("", employeeHandler.List)
			employees.GET("/:id", employeeHandler.Get)
			employees.POST("", employeeHandler.Create)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
			employees.POST("/:id/qualifications", employeeHandler.AddQualification)
		}

		export := authed.Group("/export")
		{
			export.GET("/master/:entity",
				middleware.PagePermission(p.Permissions, middleware.MasterEntityPage()),
				exportHandler.Entity)
			export.GET("/employees",
				middleware.PagePermission(p.Permissions, middleware.StaticPage(models.MenuPathEmployee)),
				exportHandler.Employees)
		}

		authed.GET("/metrics/snapshot",
			middleware.RequireRoles("SUPERADMIN", "ADMIN"),
			metricsHandler.Snapshot)
	}

	return r
}
