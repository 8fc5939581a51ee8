package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enarm_backend/internal/config"
	"enarm_backend/internal/controller"
	"enarm_backend/internal/repository"
	"enarm_backend/internal/service"
	"enarm_backend/pkg/database"
	"enarm_backend/pkg/logger"
	"enarm_backend/pkg/monitoring"
	"enarm_backend/pkg/security"
	"enarm_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user      *repository.UserRepository
	specialty *repository.SpecialtyRepository
	bankItem  *repository.BankItemRepository
	exam      *repository.ExamRepository
	attempt   *repository.AttemptRepository
}

type services struct {
	auth    *service.AuthService
	exam    *service.ExamService
	attempt *service.AttemptService
	ranking *service.RankingService
}

type controllers struct {
	auth      *controller.AuthController
	exam      *controller.ExamController
	attempt   *controller.AttemptController
	specialty *controller.SpecialtyController
	bankItem  *controller.BankItemController
	ranking   *controller.RankingController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		specialty: repository.NewSpecialtyRepository(db),
		bankItem:  repository.NewBankItemRepository(db),
		exam:      repository.NewExamRepository(db),
		attempt:   repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, a.Config)
	s.ranking = service.NewRankingService(rdb)
	s.exam = service.NewExamService(repos.specialty, repos.bankItem, repos.exam)
	s.attempt = service.NewAttemptService(repos.attempt, repos.exam, repos.bankItem, s.ranking)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		exam:      controller.NewExamController(s.exam, s.attempt),
		attempt:   controller.NewAttemptController(s.attempt),
		specialty: controller.NewSpecialtyController(repos.specialty),
		bankItem:  controller.NewBankItemController(repos.bankItem, repos.specialty),
		ranking:   controller.NewRankingController(s.ranking),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, rdb)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("enarm-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
