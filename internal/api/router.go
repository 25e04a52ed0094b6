package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hbiu/lms-backend/docs"
	"github.com/hbiu/lms-backend/internal/api/handler"
	"github.com/hbiu/lms-backend/internal/api/metrics"
	"github.com/hbiu/lms-backend/internal/api/middleware"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
	"github.com/hbiu/lms-backend/internal/core/service"
	"github.com/hbiu/lms-backend/internal/infrastructure/http/handlers"
	"github.com/hbiu/lms-backend/internal/pkg/config"
)

// Deps carries everything the router needs. Limiter may be nil to disable
// rate limiting; Registry may be nil to use a fresh one.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    ports.Store
	Tokens   ports.TokenService
	Hasher   ports.PasswordHasher
	Limiter  ports.RateLimiter
	Checks   map[string]handlers.Check
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config
	log := d.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Env)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(reg)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "lms",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Dependencies ---
	store := d.Store
	authService := service.NewAuthService(store, d.Hasher, d.Tokens, log.With().Str("component", "auth").Logger())
	userService := service.NewUserService(store, log.With().Str("component", "users").Logger())
	collegeService := service.NewCollegeService(store, log.With().Str("component", "colleges").Logger())
	courseService := service.NewCourseService(store, log.With().Str("component", "courses").Logger())
	adminService := service.NewAdminService(store, cfg.Store.Driver, log.With().Str("component", "admin").Logger())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	collegeHandler := handler.NewCollegeHandler(collegeService)
	courseHandler := handler.NewCourseHandler(courseService)
	adminHandler := handler.NewAdminHandler(adminService, userService)

	protect := middleware.Auth(d.Tokens, store.Users)
	optional := middleware.OptionalAuth(d.Tokens, store.Users)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	teaching := middleware.RBAC(domain.RoleLecturer, domain.RoleAdmin)

	// --- Infra routes ---
	checks := map[string]handlers.Check{}
	if store.Pinger != nil {
		checks["database"] = store.Pinger.Ping
	}
	for name, check := range d.Checks {
		checks[name] = check
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness)                 // liveness: is the process alive?
	e.GET("/health/ready", handlers.NewReadinessHandler(checks).Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, log))
	}

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, protect)
	auth.GET("/me", authHandler.Me, protect)
	auth.PUT("/profile", authHandler.UpdateProfile, protect)
	auth.PUT("/change-password", authHandler.ChangePassword, protect)

	// --- Users ---
	users := api.Group("/users", protect)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.GET("/:id/courses", userHandler.Courses)
	users.GET("/:id/stats", userHandler.Stats)

	// --- Colleges ---
	colleges := api.Group("/colleges")
	colleges.GET("", collegeHandler.List, optional)
	colleges.GET("/:id", collegeHandler.Get, optional)
	colleges.POST("", collegeHandler.Create, protect, adminOnly)
	colleges.PUT("/:id", collegeHandler.Update, protect, adminOnly)
	colleges.DELETE("/:id", collegeHandler.Delete, protect, adminOnly)
	colleges.GET("/:id/courses", collegeHandler.Courses, optional)
	colleges.GET("/:id/staff", collegeHandler.Staff, protect, middleware.RBAC(domain.RoleAdmin, domain.RoleCollegeAdmin))
	colleges.GET("/:id/students", collegeHandler.Students, protect, middleware.RBAC(domain.RoleAdmin, domain.RoleCollegeAdmin))

	// --- Courses ---
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List, optional)
	courses.GET("/:id", courseHandler.Get, optional)
	courses.POST("", courseHandler.Create, protect, teaching)
	courses.PUT("/:id", courseHandler.Update, protect, teaching)
	courses.DELETE("/:id", courseHandler.Delete, protect, adminOnly)
	courses.POST("/:id/enroll", courseHandler.Enroll, protect, middleware.RBAC(domain.RoleStudent))
	courses.GET("/:id/assignments", courseHandler.Assignments, protect)
	courses.POST("/:id/assignments", courseHandler.CreateAssignment, protect, teaching)
	courses.GET("/:id/students", courseHandler.Students, protect, teaching)

	// --- Admin ---
	admin := api.Group("/admin", protect, adminOnly)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/analytics", adminHandler.Analytics)
	admin.GET("/users", adminHandler.Users)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole)
	admin.POST("/bulk-operations", adminHandler.Bulk)
	admin.GET("/system-health", adminHandler.SystemHealth)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
