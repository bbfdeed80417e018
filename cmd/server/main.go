package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/balejosg/whitelist-sub001/internal/app"
	"github.com/balejosg/whitelist-sub001/internal/blocklist"
	"github.com/balejosg/whitelist-sub001/internal/config"
	"github.com/balejosg/whitelist-sub001/internal/repository"
	"github.com/balejosg/whitelist-sub001/internal/service"
	"github.com/balejosg/whitelist-sub001/internal/transport/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	blocked, err := blocklist.Load(cfg.BlockedDomainsFile)
	if err != nil {
		logger.Fatal("Failed to load blocked domains",
			zap.String("file", cfg.BlockedDomainsFile),
			zap.Error(err))
	}
	logger.Info("Blocked domains loaded",
		zap.String("file", cfg.BlockedDomainsFile),
		zap.Int("count", len(blocked.Domains())))

	scheduleRepo := repository.NewScheduleRepository(pool)
	classroomRepo := repository.NewClassroomRepository(pool)
	machineRepo := repository.NewMachineRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	scheduleService := service.NewScheduleService(scheduleRepo, logger)
	classroomService := service.NewClassroomService(classroomRepo, machineRepo, logger)
	resolverService := service.NewResolverService(machineRepo, classroomRepo, scheduleService, logger)
	requestService := service.NewRequestService(requestRepo, tokenRepo, blocked, cfg.DefaultGroupID, logger)

	reaper := app.NewTokenReaper(tokenRepo, 0, logger)
	reaper.Start(ctx)
	defer reaper.Stop()

	router := httpapi.NewRouter(
		httpapi.NewRequestHandler(requestService, logger),
		httpapi.NewScheduleHandler(scheduleService, logger),
		httpapi.NewClassroomHandler(classroomService, resolverService, logger),
		roleRepo,
		cfg.JWTSecret,
		logger,
	)
	fiberApp := router.App()

	go func() {
		logger.Info("Starting server",
			zap.String("environment", cfg.Environment),
			zap.String("listen_addr", cfg.ListenAddr))
		if err := fiberApp.Listen(cfg.ListenAddr); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
