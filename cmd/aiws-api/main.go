package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/aiws-admin-api/api/swagger"
	"github.com/noah-isme/aiws-admin-api/internal/handler"
	"github.com/noah-isme/aiws-admin-api/internal/repository"
	"github.com/noah-isme/aiws-admin-api/internal/routes"
	"github.com/noah-isme/aiws-admin-api/internal/service"
	"github.com/noah-isme/aiws-admin-api/pkg/cache"
	"github.com/noah-isme/aiws-admin-api/pkg/config"
	"github.com/noah-isme/aiws-admin-api/pkg/database"
	"github.com/noah-isme/aiws-admin-api/pkg/export"
	"github.com/noah-isme/aiws-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/aiws-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/aiws-admin-api/pkg/middleware/requestid"
)

// @title AIWS Admin API
// @version 1.0.0
// @description Staff, courses, leads, students, payments and financials for the AIWS admin dashboard
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(sigCtx, db, logr); err != nil {
			logr.Fatal("database migration failed", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()
	cacheSvc, closeCache := newCacheService(cfg, metrics, logr)
	defer closeCache()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	users := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(users, validator.New(), logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.Auth.SingleSession,
		AllowSignUp:        cfg.Auth.AllowSignUp,
	})

	routes.Register(r, buildHandlers(db, authSvc, cacheSvc, metrics, cfg, logr), routes.Options{
		APIPrefix:  cfg.APIPrefix,
		EnableDocs: cfg.Env != config.EnvProduction,
		Tokens:     authSvc,
		Audit:      users,
		Metrics:    metrics,
		Logger:     logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	case <-sigCtx.Done():
		logr.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCacheService connects Redis when dashboard caching is on. A Redis outage
// at boot disables the cache rather than the API.
func newCacheService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, func()) {
	var repo service.CacheRepository
	closeFn := func() {}
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			repo = cacheRepo
			closeFn = func() { _ = cacheRepo.Close() }
		}
	}
	return service.NewCacheService(repo, metrics, cfg.Dashboard.CacheTTL, logr, repo != nil), closeFn
}

func buildHandlers(db *sqlx.DB, authSvc *service.AuthService, cacheSvc *service.CacheService, metrics *service.MetricsService, cfg *config.Config, logr *zap.Logger) routes.Handlers {
	validate := validator.New()

	employeeRepo := repository.NewEmployeeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	financialRepo := repository.NewFinancialRepository(db)

	employees := service.NewEmployeeService(employeeRepo, cacheSvc, metrics, validate, logr)
	courses := service.NewCourseService(courseRepo, cacheSvc, metrics, validate, logr)
	leads := service.NewLeadService(leadRepo, cacheSvc, metrics, validate, logr)
	students := service.NewStudentService(studentRepo, courseRepo, cacheSvc, metrics, validate, logr)
	payments := service.NewPaymentService(paymentRepo, studentRepo, cacheSvc, metrics, validate, logr)
	financials := service.NewFinancialService(financialRepo, cacheSvc, metrics, validate, logr)

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Employees:  employeeRepo,
		Courses:    courseRepo,
		Leads:      leadRepo,
		Students:   studentRepo,
		Financials: financialRepo,
		Cache:      cacheSvc,
		Logger:     logr,
		Config:     service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	exports := service.NewExportService(service.ExportServiceParams{
		Employees: employeeRepo,
		Courses:   courseRepo,
		Leads:     leadRepo,
		Students:  studentRepo,
		XLSX:      export.NewXLSXExporter(),
		CSV:       export.NewCSVExporter(),
		PDF:       export.NewPDFExporter(),
		Metrics:   metrics,
		Logger:    logr,
		Config:    service.ExportConfig{FilePrefix: cfg.Export.FilePrefix},
	})

	return routes.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Employees:  handler.NewEmployeeHandler(employees),
		Courses:    handler.NewCourseHandler(courses),
		Leads:      handler.NewLeadHandler(leads),
		Students:   handler.NewStudentHandler(students),
		Payments:   handler.NewPaymentHandler(payments),
		Financials: handler.NewFinancialHandler(financials),
		Dashboard:  handler.NewDashboardHandler(dashboard),
		Exports:    handler.NewExportHandler(exports),
		Metrics:    handler.NewMetricsHandler(metrics, db),
	}
}
