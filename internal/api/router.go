package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/staffboard/todo-system/internal/api/handler"
	"github.com/staffboard/todo-system/internal/api/middleware"
	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/infrastructure/http/handlers"
	"github.com/staffboard/todo-system/internal/pkg/session"

	_ "github.com/staffboard/todo-system/docs"
)

// AuthDeps wires the token issuer.
type AuthDeps struct {
	Auth      ports.AuthService
	JWTSecret []byte
	Checks    map[string]handlers.Check
	Log       zerolog.Logger
}

// AppDeps wires the task application.
type AppDeps struct {
	Login         ports.LoginService
	Sessions      *session.Manager
	Employees     ports.EmployeeService
	Tasks         ports.TaskService
	Notifications ports.NotificationService
	Dashboard     ports.DashboardService
	Checks        map[string]handlers.Check
	Log           zerolog.Logger
}

// NewAuthRouter builds the token issuer's Echo instance.
func NewAuthRouter(d AuthDeps) *echo.Echo {
	e := newEcho("auth_api", d.Log)

	authHandler := handler.NewAuthHandler(d.Auth)

	// --- Auth routes ---
	g := e.Group("/api/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/me", authHandler.Me, middleware.Bearer(d.JWTSecret))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	registerHealth(e, d.Checks)
	return e
}

// NewAppRouter builds the task application's Echo instance.
func NewAppRouter(d AppDeps) *echo.Echo {
	e := newEcho("todo_app", d.Log)

	sessions := middleware.NewSessions(d.Sessions, d.Log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	accountHandler := handler.NewAccountHandler(d.Login, d.Sessions, d.Log)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	employeeHandler := handler.NewEmployeeHandler(d.Employees)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)

	// --- Anonymous routes ---
	e.GET("/account/login", accountHandler.LoginPage, sessions.Load())
	e.POST("/account/login", accountHandler.Login)
	e.POST("/account/logout", accountHandler.Logout)
	e.GET("/employees/:id/avatar", employeeHandler.Avatar)

	// --- Session routes ---
	s := e.Group("", sessions.Require())
	s.GET("/", dashboardHandler.Stats)
	s.GET("/account/me", accountHandler.Me)

	s.GET("/tasks", taskHandler.List)
	s.GET("/tasks/:id", taskHandler.Details)
	s.POST("/tasks/:id/comments", taskHandler.AddComment)
	s.POST("/tasks", taskHandler.Create, adminOnly)
	s.PUT("/tasks/:id", taskHandler.Update, adminOnly)
	s.DELETE("/tasks/:id", taskHandler.Delete, adminOnly)

	s.GET("/notifications", notificationHandler.List)
	s.GET("/notifications/count", notificationHandler.Count)
	s.POST("/notifications/read", notificationHandler.MarkRead)

	// --- Admin routes ---
	a := s.Group("/employees", adminOnly)
	a.GET("", employeeHandler.List)
	a.GET("/:id", employeeHandler.Get)
	a.POST("", employeeHandler.Create)
	a.PUT("/:id", employeeHandler.Update)
	a.DELETE("/:id", employeeHandler.Delete)

	registerHealth(e, d.Checks)
	return e
}

func newEcho(subsystem string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem: subsystem,
	}))
	e.GET("/metrics", echoprometheus.NewHandler())
	return e
}

// registerHealth mounts the probes; they need no authentication.
func registerHealth(e *echo.Echo, checks map[string]handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	readiness := handlers.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readiness.Readiness)
}
