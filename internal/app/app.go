package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"workbook_coach_backend/internal/cache"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/controller"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/configwatcher"
	"workbook_coach_backend/pkg/database"
	"workbook_coach_backend/pkg/logger"
	"workbook_coach_backend/pkg/monitoring"
	"workbook_coach_backend/pkg/security"
	"workbook_coach_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	generationLockTTL    = 5 * time.Minute
	diagnosisRetryPeriod = 15 * time.Minute
	diagnosisRetryBatch  = 20
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	stop            context.CancelFunc
}

type repositories struct {
	user       *repository.UserRepository
	worksheet  *repository.WorksheetRepository
	submission *repository.SubmissionRepository
	followup   *repository.FollowupRepository
}

type services struct {
	auth           *service.AuthService
	storage        *service.StorageService
	ai             *service.AIService
	worksheet      *service.WorksheetService
	triggers       *service.TriggerEngine
	submission     *service.SubmissionService
	followup       *service.FollowupService
	recommendation *service.RecommendationService
}

type controllers struct {
	auth           *controller.AuthController
	submission     *controller.SubmissionController
	followup       *controller.FollowupController
	recommendation *controller.RecommendationController
	worksheet      *controller.WorksheetController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		worksheet:  repository.NewWorksheetRepository(db),
		submission: repository.NewSubmissionRepository(db),
		followup:   repository.NewFollowupRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	// redis is optional: without it there is no worksheet cache and no
	// cross-instance generation lock
	var worksheetCache cache.WorksheetCache
	var lock cache.GenerationLock
	if rdb != nil {
		worksheetCache = cache.NewWorksheetCache(rdb, time.Duration(cfg.WorksheetCacheTTLMinutes)*time.Minute)
		lock = cache.NewGenerationLock(rdb, generationLockTTL)
	}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.worksheet = service.NewWorksheetService(repos.worksheet, worksheetCache)
	s.triggers = service.NewTriggerEngine(triggerPolicy(cfg.Followup))

	generator := service.NewDiagnosisGenerator(s.ai, s.ai.DefaultOptions)
	archive := service.NewDiagnosisArchive(s.storage)
	contextBuilder := service.NewContextBuilder(repos.user, s.worksheet.Lookup)

	s.submission = service.NewSubmissionService(repos.submission, repos.user, s.worksheet, generator, archive, lock)
	s.followup = service.NewFollowupService(repos.followup, s.submission, s.worksheet, contextBuilder, generator, archive, lock)
	s.recommendation = service.NewRecommendationService(repos.submission, repos.followup, s.worksheet, s.triggers)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		submission:     controller.NewSubmissionController(s.submission),
		followup:       controller.NewFollowupController(s.followup),
		recommendation: controller.NewRecommendationController(s.recommendation),
		worksheet:      controller.NewWorksheetController(s.worksheet),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// applyConfig pushes hot-reloadable settings into running services.
func (a *App) applyConfig(cfg *config.Config) {
	a.services.ai.UpdateConfig(cfg.AI)
	a.services.triggers.SetPolicy(triggerPolicy(cfg.Followup))
	logger.Log.Info("Applied reloaded settings",
		zap.String("ai_model", cfg.AI.Model),
		zap.Int("followup_days", cfg.Followup.TimeThresholdDays),
		zap.Float64("low_rating_threshold", cfg.Followup.LowRatingThreshold))
}

func triggerPolicy(cfg config.FollowupConfig) service.TriggerPolicy {
	p := service.DefaultTriggerPolicy()
	if cfg.TimeThresholdDays > 0 {
		p.TimeThresholdDays = cfg.TimeThresholdDays
	}
	if cfg.LowRatingThreshold > 0 {
		p.LowRatingThreshold = cfg.LowRatingThreshold
	}
	if cfg.RatingScaleMax > 0 {
		p.RatingScaleMax = cfg.RatingScaleMax
	}
	return p
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go func() {
		if n, err := s.worksheet.Warm(ctx); err != nil {
			logger.Log.Warn("Worksheet cache warm-up failed", zap.Error(err))
		} else if n > 0 {
			logger.Log.Info("Worksheet cache warmed", zap.Int("worksheets", n))
		}
	}()

	go func() {
		ticker := time.NewTicker(diagnosisRetryPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.submission.RegenerateMissing(ctx, diagnosisRetryBatch); err != nil {
					logger.Log.Error("Diagnosis retry error", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		file := filepath.Join("configs", "config.yaml")
		err := configwatcher.WatchConfig(ctx, file, config.Reload, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	dbLogLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		dbLogLevel = gormlogger.Info
	}
	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate, dbLogLevel)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without cache and generation locks", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing, cfg.Server.Mode)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(app.applyConfig)

	ctx, cancel := context.WithCancel(context.Background())
	app.stop = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// wait for an interrupt, then shut down within 5 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stop != nil {
		a.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
