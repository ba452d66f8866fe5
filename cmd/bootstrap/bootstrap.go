package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"belezure-api/config"
	deliveryHttp "belezure-api/internal/delivery/http"
	"belezure-api/internal/delivery/http/handler"
	"belezure-api/internal/delivery/http/middleware"
	"belezure-api/internal/infrastructure/cache"
	"belezure-api/internal/infrastructure/database"
	"belezure-api/internal/infrastructure/mail"
	"belezure-api/internal/infrastructure/storage"
	"belezure-api/internal/job"
	"belezure-api/internal/repository"
	"belezure-api/internal/service"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/jwt"
	"belezure-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	SlotCache   *service.SlotCacheService
	Scheduler   *job.Scheduler
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	log := setupLogger()
	app.Log = log

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	}
	log.Info("Configuration loaded successfully")

	ctx := context.Background()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.RunMigrations(db, cfg.DB.MigrationsPath); err != nil {
		app.Close()
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	// Initialize blob store
	blobStore, err := storage.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	log.Infof("Blob store ready (%s)", cfg.Storage.Provider)

	// Initialize all layers
	if err := app.initialize(blobStore, mail.NewMailer(cfg.Mail, log)); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// initialize wires repositories, services, usecases, handlers and the HTTP server
func (app *App) initialize(blobStore storage.BlobStore, mailer mail.Mailer) error {
	cfg, db, log, redisClient := app.Config, app.DB, app.Log, app.RedisClient
	loc := cfg.Location()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	identityRepo := repository.NewIdentityRepository()
	userRepo := repository.NewUserRepository()
	addressRepo := repository.NewAddressRepository()
	providerProfileRepo := repository.NewProviderProfileRepository()
	categoryRepo := repository.NewCategoryRepository()
	serviceRepo := repository.NewServiceRepository()
	reviewRepo := repository.NewReviewRepository()
	ledgerRepo := repository.NewAvailabilityLedgerRepository()
	bookingRepo := repository.NewBookingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	app.SlotCache = service.NewSlotCacheService(db, redisClient, log, ledgerRepo, loc)
	auditService := service.NewAuditService(db, log, auditLogRepo)
	imageService := service.NewImageService(blobStore, log)
	notificationService := service.NewNotificationService(db, log, mailer, bookingRepo, userRepo)

	// Initialize usecases
	identity := usecase.NewIdentityGateway(db, log, identityRepo)
	authUsecase := usecase.NewAuthUsecase(db, log, identity, userRepo, addressRepo, providerProfileRepo, auditService, imageService, jwtService, redisClient)
	registrationUsecase := usecase.NewRegistrationUsecase(db, log, customValidator, identity, userRepo, addressRepo, providerProfileRepo, auditService, imageService)
	catalogUsecase := usecase.NewCatalogUsecase(db, log, serviceRepo, categoryRepo, providerProfileRepo, userRepo, addressRepo, reviewRepo, auditService, imageService)
	serviceUsecase := usecase.NewServiceUsecase(db, log, serviceRepo, categoryRepo, providerProfileRepo, auditService, imageService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, ledgerRepo, bookingRepo, auditService, app.SlotCache)
	bookingUsecase := usecase.NewBookingUsecase(db, log, loc, availabilityUsecase, app.SlotCache, serviceRepo, userRepo, bookingRepo, notificationService)
	uploadUsecase := usecase.NewUploadUsecase(log, imageService)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, registrationUsecase, customValidator)
	catalogHandler := handler.NewCatalogHandler(catalogUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, bookingUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	serviceHandler := handler.NewServiceHandler(serviceUsecase, customValidator)
	uploadHandler := handler.NewUploadHandler(uploadUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	requestMiddleware := middleware.NewRequestMiddleware(log, cfg.App.RequestTimeout)

	// Initialize background jobs
	scheduler, err := job.NewScheduler(cfg.Jobs, loc, log, app.SlotCache, notificationService)
	if err != nil {
		return err
	}
	app.Scheduler = scheduler

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		catalogHandler,
		availabilityHandler,
		bookingHandler,
		serviceHandler,
		uploadHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		requestMiddleware,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Warm the slot cache; bookings fall back to the database until it is filled
	go func() {
		if err := app.SlotCache.Resync(context.Background()); err != nil {
			app.Log.Warnf("Initial slot cache resync failed: %+v", err)
		}
	}()

	app.Scheduler.Start()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Scheduler.Stop(ctx)

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close releases the slot cache, database and Redis connections
func (app *App) Close() {
	if app.SlotCache != nil {
		app.SlotCache.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
