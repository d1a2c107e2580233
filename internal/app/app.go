package app

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"portfolio_admin/database"
	"portfolio_admin/internal/config"
	"portfolio_admin/internal/handlers"
	"portfolio_admin/internal/imageprocessor"
	"portfolio_admin/internal/logger"
	"portfolio_admin/internal/middleware"
	"portfolio_admin/internal/models"
	"portfolio_admin/internal/repositories"
	"portfolio_admin/internal/routes"
	"portfolio_admin/internal/services"
	"portfolio_admin/internal/storage"
	"portfolio_admin/internal/store"
	"portfolio_admin/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	uploadsStorage, err := newBucketStorage(cfg, cfg.Storage.UploadsBucket)
	if err != nil {
		logger.Fatal("Failed to initialize uploads storage", "error", err)
	}
	iconsStorage, err := newBucketStorage(cfg, cfg.Storage.IconsBucket)
	if err != nil {
		logger.Fatal("Failed to initialize icons storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	appHandlers := initializeHandlers(gormDB, uploadsStorage, iconsStorage, cfg)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func newBucketStorage(cfg *config.Config, bucket string) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type:            cfg.Storage.Type,
		BasePath:        cfg.Storage.BasePath,
		BaseURL:         cfg.Storage.BaseURL,
		Bucket:          bucket,
		AccessKey:       cfg.Storage.AccessKey,
		SecretKey:       cfg.Storage.SecretKey,
		Endpoint:        cfg.Storage.Endpoint,
		CacheControlAge: cfg.Storage.CacheControlAge,
	})
}

func initializeHandlers(gormDB *gorm.DB, uploadsStorage, iconsStorage storage.Storage, cfg *config.Config) *handlers.AppHandlers {
	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	portfolioRepo := repositories.NewPortfolioRepository()
	techStackRepo := repositories.NewTechStackRepository()

	// --- Инициализация сервисов ---
	processor := imageprocessor.NewProcessor()
	keys := services.NewKeyGenerator()
	authService := services.NewAuthService(userRepo)
	portfolioService := services.NewPortfolioService(portfolioRepo, uploadsStorage, processor, keys)
	techStackService := services.NewTechStackService(techStackRepo, iconsStorage, processor, keys)

	// --- Инициализация сторов ---
	portfolioStore := store.NewPortfolioStore(portfolioService, gormDB)
	techStackStore := store.NewTechStackStore(techStackService, gormDB)

	customValidator := validator.New()

	return &handlers.AppHandlers{
		Auth:      handlers.NewAuthHandler(authService, customValidator, gormDB),
		Portfolio: handlers.NewPortfolioHandler(portfolioStore),
		TechStack: handlers.NewTechStackHandler(techStackStore),
		File: handlers.NewFileHandler(map[string]storage.Storage{
			cfg.Storage.UploadsBucket: uploadsStorage,
			cfg.Storage.IconsBucket:   iconsStorage,
		}),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password is not configured. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
