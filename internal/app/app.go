package app

import (
	"campus_club_backend/internal/config"
	"campus_club_backend/internal/controller"
	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/service"
	"campus_club_backend/pkg/configwatcher"
	"campus_club_backend/pkg/database"
	"campus_club_backend/pkg/logger"
	"campus_club_backend/pkg/monitoring"
	"campus_club_backend/pkg/ratelimit"
	"campus_club_backend/pkg/security"
	"campus_club_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Gate     *ratelimit.FixedWindow
	services *services
	throttle *security.Throttle
	tracer   *sdktrace.TracerProvider
	stopBg   context.CancelFunc

	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	user        *repository.UserRepository
	teacher     *repository.TeacherRepository
	course      *repository.CourseRepository
	event       *repository.EventRepository
	attendance  *repository.AttendanceRepository
	challenge   *repository.ChallengeRepository
	submission  *repository.SubmissionRepository
	leaderboard *repository.LeaderboardRepository
	setting     *repository.SettingRepository
	stats       *repository.StatsRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	storage       *service.StorageService
	teacher       *service.TeacherService
	course        *service.CourseService
	event         *service.EventService
	attendanceHub *service.AttendanceHub
	attendance    *service.AttendanceService
	challenge     *service.ChallengeService
	leaderboard   *service.LeaderboardService
	setting       *service.SettingService
	submission    *service.SubmissionService
	stats         *service.StatsService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	teacher     *controller.TeacherController
	course      *controller.CourseController
	event       *controller.EventController
	attendance  *controller.AttendanceController
	challenge   *controller.ChallengeController
	leaderboard *controller.LeaderboardController
	setting     *controller.SettingController
	stats       *controller.StatsController
	health      *controller.HealthController
}

// RegisterConfigCallback 配置文件变更后依次回调
func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		teacher:     repository.NewTeacherRepository(db),
		course:      repository.NewCourseRepository(db),
		event:       repository.NewEventRepository(db),
		attendance:  repository.NewAttendanceRepository(db),
		challenge:   repository.NewChallengeRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		leaderboard: repository.NewLeaderboardRepository(db),
		setting:     repository.NewSettingRepository(db),
		stats:       repository.NewStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(context.Background(), cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.teacher = service.NewTeacherService(repos.teacher)
	s.course = service.NewCourseService(repos.course, repos.teacher)
	s.event = service.NewEventService(repos.event, s.storage)

	s.attendanceHub = service.NewAttendanceHub(rdb)
	go s.attendanceHub.Run()
	s.attendance = service.NewAttendanceService(repos.attendance, repos.course, s.attendanceHub)

	s.challenge = service.NewChallengeService(repos.challenge)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, rdb)
	s.setting = service.NewSettingService(repos.setting)

	grader := judge.NewPistonGrader(judge.NewPistonClient(cfg.Executor))
	s.submission = service.NewSubmissionService(
		s.challenge,
		repos.submission,
		grader,
		service.NewRedisChallengeClock(rdb),
		s.leaderboard,
		s.setting,
	)

	s.stats = service.NewStatsService(repos.stats)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		teacher:     controller.NewTeacherController(s.teacher),
		course:      controller.NewCourseController(s.course),
		event:       controller.NewEventController(s.event),
		attendance:  controller.NewAttendanceController(s.attendance, s.attendanceHub),
		challenge:   controller.NewChallengeController(s.challenge, s.submission),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		setting:     controller.NewSettingController(s.setting),
		stats:       controller.NewStatsController(s.stats),
		health:      controller.NewHealthController(a.DB, a.Redis),
	}
}

// newIngestionGate 按配置选择计数存储，内存存储随 ctx 定期清理
func newIngestionGate(ctx context.Context, cfg *config.IngestionConfig, rdb *redis.Client) *ratelimit.FixedWindow {
	if cfg.Store == "redis" && rdb != nil {
		return ratelimit.NewFixedWindow(ratelimit.NewRedisStore(rdb), cfg.Limit, cfg.Window())
	}
	store := ratelimit.NewMemoryStore()
	go store.RunJanitor(ctx, time.Minute)
	return ratelimit.NewFixedWindow(store, cfg.Limit, cfg.Window())
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	a.throttle = security.NewThrottle(cfg.RateLimit.MaxRequests, window)
	router.Use(a.throttle.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 使用已建立的数据库和 Redis 连接组装应用
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	monitoring.Init()

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services)

	bgCtx, cancel := context.WithCancel(context.Background())
	app.stopBg = cancel
	app.Gate = newIngestionGate(bgCtx, &cfg.Ingestion, rdb)
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Gate.SetLimits(newCfg.Ingestion.Limit, newCfg.Ingestion.Window())
		logger.Log.Info("Ingestion limits updated",
			zap.Int("limit", newCfg.Ingestion.Limit),
			zap.Int("windowMinutes", newCfg.Ingestion.WindowMinutes),
		)
	})

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// NewApp 初始化日志、数据库、Redis 和追踪，然后组装应用
func NewApp(cfg *config.Config, migrate bool) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("campus-club-backend", &cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	if err := app.services.auth.EnsureAdmin(); err != nil {
		logger.Log.Error("Failed to seed admin account", zap.Error(err))
	}
	if err := app.services.leaderboard.Rebuild(context.Background()); err != nil {
		logger.Log.Warn("Failed to rebuild leaderboard cache", zap.Error(err))
	}

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.Path != "" {
		if err := configwatcher.Watch(watchCtx, a.Config.Path, a.configCallbacks...); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	logger.Log.Info("Shutting down server...")

	a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close 断开 WebSocket 订阅并停止后台任务
func (a *App) Close() {
	if a.stopBg != nil {
		a.stopBg()
	}
	if a.services != nil && a.services.attendanceHub != nil {
		a.services.attendanceHub.Stop()
	}
	if a.throttle != nil {
		a.throttle.Stop()
	}
}
