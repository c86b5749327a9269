package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/campusgate/campus-erp-api/api/swagger"
	"github.com/campusgate/campus-erp-api/internal/repository"
	"github.com/campusgate/campus-erp-api/internal/router"
	"github.com/campusgate/campus-erp-api/internal/service"
	"github.com/campusgate/campus-erp-api/pkg/cache"
	"github.com/campusgate/campus-erp-api/pkg/config"
	"github.com/campusgate/campus-erp-api/pkg/database"
	"github.com/campusgate/campus-erp-api/pkg/logger"
)

// @title Campus ERP API
// @version 1.0.0
// @description Permission-gated master data and administration service
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	masterRepo := repository.NewMasterRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.Auth, validate, logr)
	permissionService := service.NewPermissionService(permissionRepo, userRepo, cacheRepo, metricsService, validate, logr)
	navigationService := service.NewNavigationService(permissionService, logr)
	masterService := service.NewMasterService(masterRepo, userRepo, logr)
	optionsService := service.NewOptionsService(masterRepo, cacheRepo, logr)
	notificationService := service.NewNotificationService(cacheRepo, cfg.Notifications.TTL, logr)
	employeeService := service.NewEmployeeService(employeeRepo, validate, logr)
	userService := service.NewUserService(userRepo, logr)
	exportService := service.NewExportService(masterService, employeeService, cfg.Exports, logr)

	r := router.New(router.Params{
		Config:        cfg,
		Logger:        logr,
		Users:         userRepo,
		Auth:          authService,
		Permissions:   permissionService,
		Navigation:    navigationService,
		Masters:       masterService,
		Options:       optionsService,
		Notifications: notificationService,
		Employees:     employeeService,
		UserAccounts:  userService,
		Exports:       exportService,
		Metrics:       metricsService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
