package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"evently/internal/cache"
	"evently/internal/client/stats"
	"evently/internal/config"
	cronrunner "evently/internal/cron"
	"evently/internal/db"
	"evently/internal/handler"
	"evently/internal/logger"
	"evently/internal/models"
	"evently/internal/repository"
	gormrepository "evently/internal/repository/gorm"
	"evently/internal/service"

	_ "evently/docs"
)

// @title Evently API
// @version 1.0
// @description Event management platform: event lifecycle, participation requests, comments and compilations.
// @BasePath /
func main() {
	cfgPath := os.Getenv("EVENTLY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("EVENTLY_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	statsHTTP := &http.Client{Timeout: cfg.Stats.Timeout}
	statsClient := stats.NewClient(statsHTTP, cfg.Stats.BaseURL)

	viewCache := cache.NewViewCache(cfg.Redis)
	if viewCache != nil {
		defer viewCache.Close()
	}

	enricher := &service.Enricher{
		Repo:   store,
		Stats:  statsClient,
		Views:  viewCache,
		Flags:  settingsSvc,
		Logger: logger,
	}
	telemetry := &service.TelemetryService{
		Stats:   statsClient,
		Flags:   settingsSvc,
		Logger:  logger,
		App:     cfg.Stats.AppName,
		Timeout: cfg.Stats.HitTimeout,
	}
	eventSvc := &service.EventService{Repo: store, Enrich: enricher, Logger: logger}
	requestSvc := &service.RequestService{Repo: store, Logger: logger}
	userSvc := &service.UserService{Repo: store, Logger: logger}
	categorySvc := &service.CategoryService{Repo: store, Logger: logger}
	commentSvc := &service.CommentService{Repo: store, Logger: logger}
	compilationSvc := &service.CompilationService{Repo: store, Enrich: enricher, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	privateEvents := &handler.PrivateEventHandler{Events: eventSvc, Requests: requestSvc}
	privateEvents.Register(engine)
	adminEvents := &handler.AdminEventHandler{Events: eventSvc}
	adminEvents.Register(engine)
	publicEvents := &handler.PublicEventHandler{Events: eventSvc, Telemetry: telemetry}
	publicEvents.Register(engine)
	requests := &handler.RequestHandler{Requests: requestSvc}
	requests.Register(engine)
	users := &handler.UserHandler{Users: userSvc}
	users.Register(engine)
	categories := &handler.CategoryHandler{Categories: categorySvc}
	categories.Register(engine)
	compilations := &handler.CompilationHandler{Compilations: compilationSvc}
	compilations.Register(engine)
	comments := &handler.CommentHandler{Comments: commentSvc}
	comments.Register(engine)
	settings := &handler.SettingsHandler{Settings: settingsSvc}
	settings.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	_, err = cronRunner.Add("stale-pending-sweep", cfg.Sweep.Spec, func(ctx context.Context) {
		if !settingsSvc.IsEnabled(ctx, service.FeatureStaleSweep, true) {
			return
		}
		n, err := eventSvc.CancelStalePending(ctx, cfg.Sweep.BatchSize)
		if err != nil {
			logger.Warn("stale pending sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("stale pending sweep ok", zap.Int("canceled", n))
		}
	})
	if err != nil {
		logger.Warn("cron register stale pending sweep failed", zap.Error(err))
	}

	if viewCache != nil {
		_, err = cronRunner.Add("view-cache-warmup", "@every 5m", func(ctx context.Context) {
			if !settingsSvc.IsEnabled(ctx, service.FeatureViewCache, true) {
				return
			}
			asc := false
			events, err := store.SearchEvents(ctx, repository.SearchEventsParams{
				States:  []models.EventState{models.EventStatePublished},
				Limit:   cfg.Sweep.BatchSize,
				OrderBy: "published_on",
				Asc:     &asc,
			})
			if err != nil {
				logger.Warn("view cache warmup query failed", zap.Error(err))
				return
			}
			if _, err := enricher.Enrich(ctx, events); err != nil {
				logger.Warn("view cache warmup failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register view cache warmup failed", zap.Error(err))
		}
	}

	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
