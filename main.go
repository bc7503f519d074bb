package main

import (
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"h3dstudio/internal/config"
	"h3dstudio/internal/database"
	"h3dstudio/internal/logging"
	"h3dstudio/internal/metrics"
	"h3dstudio/internal/scheduler"
	"h3dstudio/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		return
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Init(database.Config{
		Path:     cfg.Database.Path,
		LogLevel: gormlogger.Warn,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("opening database", zap.Error(err))
		return
	}

	ring, err := services.OpenKeyring(cfg.Keyring)
	if err != nil {
		logger.Error("opening keyring", zap.Error(err))
		return
	}

	sched := scheduler.New(logger)
	collector := metrics.NewCollector(metrics.DefaultNamespace, logger)
	svc := services.NewServices(cfg, db, ring, sched, collector, logger)

	app := NewApp(cfg, logger, sched, collector, svc)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	err = wails.Run(&options.App{
		Title:  "H3D Studio",
		Width:  1100,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "H3D Studio",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			svc.Generations,
			svc.Credentials,
			svc.AppSettings,
		},
	})

	if err != nil {
		logger.Error("wails run", zap.Error(err))
	}
}
