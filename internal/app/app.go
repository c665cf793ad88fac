package app

import (
	"errors"
	"fmt"

	"fixer_backend/internal/auth"
	"fixer_backend/internal/config"
	"fixer_backend/internal/email"
	"fixer_backend/internal/handlers"
	"fixer_backend/internal/logger"
	"fixer_backend/internal/middleware"
	"fixer_backend/internal/models"
	"fixer_backend/internal/routes"
	"fixer_backend/internal/services"
	"fixer_backend/internal/validator"
	"fixer_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
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

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	cleanup := workers.NewCleanupWorker(gormDB)
	go cleanup.Run()
	defer cleanup.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailProvider email.Provider

	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host not configured, emails will be dropped (mock provider)")
		emailProvider = &MockEmailProvider{}
	} else {
		renderer, err := email.NewTemplateManager()
		if err != nil {
			logger.Fatal("Failed to initialize email templates", "error", err)
		}
		if cfg.Email.TemplatesDir != "" {
			if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
				logger.Fatal("Failed to load email templates", "dir", cfg.Email.TemplatesDir, "error", err)
			}
		}
		emailProvider = email.NewSMTPProvider(&cfg.Email, renderer, cfg.Verification.CodeTTLMinutes)
	}

	return services.NewServiceContainer(emailProvider)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// migrate keeps the schema in sync with the model definitions. The
// uuid-ossp extension backs the uuid_generate_v4 column defaults.
func migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ProfessionalProfile{},
		&models.ClientProfile{},
		&models.Job{},
		&models.Quote{},
		&models.Review{},
		&models.Notification{},
	)
}

// seedFirstAdmin creates the bootstrap admin account on first start.
// The admin is born verified and active: it never goes through the
// email verification flow.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
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

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		FirstName:    "Platform",
		LastName:     "Admin",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
