package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/corvid-labs/moirai/internal/config"
	"github.com/corvid-labs/moirai/internal/database"
	"github.com/corvid-labs/moirai/internal/engine"
	"github.com/corvid-labs/moirai/internal/logger"
	"github.com/corvid-labs/moirai/internal/server"
	"github.com/corvid-labs/moirai/internal/services"
	"github.com/corvid-labs/moirai/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := "data/logs"
	_ = os.MkdirAll(logDir, 0755)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "moirai.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	mw := io.MultiWriter(os.Stdout, rotator)
	logger.Init(cfg.Environment == "development", mw)
	logger.Log().Infof("starting %s %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	var repo engine.RuleRepository
	if cfg.Persistence == "file" {
		repo, err = engine.NewFileRepository(cfg.RulesPath)
		if err != nil {
			log.Fatalf("open rules file: %v", err)
		}
	} else {
		repo = engine.NewGormRepository(db)
	}

	notificationService := services.NewNotificationService(db)
	eng, err := engine.New(engine.Options{
		Provider:        services.NewSimulatedProvider(),
		Dispatcher:      services.NewDispatcher(notificationService),
		Repository:      repo,
		Notifier:        notificationService,
		DispatchTimeout: cfg.DispatchTimeout,
	})
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	srv, err := server.New(db, eng, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if err := eng.InstallDefaultRules(); err != nil {
		logger.Log().WithError(err).Warn("installing default rules")
	}

	scheduler, err := engine.NewScheduler(eng, engine.SchedulerIntervals{
		Cycle:    cfg.CycleInterval,
		Trend:    cfg.TrendInterval,
		Optimize: cfg.OptimizeInterval,
	})
	if err != nil {
		log.Fatalf("build scheduler: %v", err)
	}
	scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Error("server error")
	}

	// Let an in-flight cycle finish before exiting.
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := scheduler.Stop(stopCtx); err != nil {
		logger.Log().WithError(err).Warn("scheduler did not stop cleanly")
	}
}
