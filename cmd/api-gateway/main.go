package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/YasmaniJob/beeclass/api/swagger"
	"github.com/YasmaniJob/beeclass/internal/handler"
	"github.com/YasmaniJob/beeclass/internal/middleware"
	"github.com/YasmaniJob/beeclass/internal/repository"
	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/authadmin"
	"github.com/YasmaniJob/beeclass/pkg/cache"
	"github.com/YasmaniJob/beeclass/pkg/config"
	"github.com/YasmaniJob/beeclass/pkg/database"
	"github.com/YasmaniJob/beeclass/pkg/eventlog"
	"github.com/YasmaniJob/beeclass/pkg/logger"
	corsmiddleware "github.com/YasmaniJob/beeclass/pkg/middleware/cors"
	reqidmiddleware "github.com/YasmaniJob/beeclass/pkg/middleware/requestid"
)

// @title Beeclass API
// @version 1.0.0
// @description School administration backend: students, staff assignments, attendance, incidents and permits.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, staff cache disabled", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StaffTTL, logr, cacheRepo.Enabled())

	staffRepo := repository.NewStaffRepository(db)
	appConfig := service.NewAppConfigService(repository.NewAppConfigRepository(db), logr)
	provider := service.NewDataProvider(service.DataProviderParams{
		Students:      repository.NewStudentRepository(db),
		Staff:         staffRepo,
		Areas:         repository.NewAreaRepository(db),
		Catalog:       repository.NewCatalogRepository(db),
		Sessions:      repository.NewSessionRepository(db),
		Grades:        repository.NewGradeRecordRepository(db),
		Log:           eventlog.New(cfg.EventLog, nil),
		Ready:         appConfig,
		Cache:         cacheSvc,
		Metrics:       metrics,
		Logger:        logr,
		StaffCacheTTL: cfg.Cache.StaffTTL,
	})
	sessions := service.NewEditorSessions(service.EditorSessionsParams{
		Provider: provider,
		Writer:   staffRepo,
		Metrics:  metrics,
		Logger:   logr,
		TTL:      cfg.Editor.SessionTTL,
	})

	var directory service.UserDirectory
	if client := authadmin.New(cfg.AuthAdmin, nil); client != nil {
		directory = client
	}

	go func() {
		if err := appConfig.Init(ctx); err != nil {
			logr.Error("app configuration unavailable", zap.Error(err))
			return
		}
		provider.Load(ctx)
	}()
	go sessions.Run(ctx, time.Minute)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Provider:      handler.NewProviderHandler(provider),
		Students:      handler.NewStudentHandler(provider),
		Staff:         handler.NewStaffHandler(provider),
		Transactional: handler.NewTransactionalHandler(provider),
		Academic:      handler.NewAcademicHandler(provider),
		Editor:        handler.NewEditorHandler(sessions),
		Exports:       handler.NewExportHandler(service.NewExportService(provider, logr, nil, nil)),
		UserAdmin:     handler.NewUserAdminHandler(service.NewUserAdminService(directory, logr)),
		Metrics:       handler.NewMetricsHandler(metrics, provider),
	}, service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Audience), middleware.Audit(logr))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatal("server failed", zap.Error(err))
	}
}
