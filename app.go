package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"h3dstudio/internal/config"
	"h3dstudio/internal/events"
	"h3dstudio/internal/metrics"
	"h3dstudio/internal/scheduler"
	"h3dstudio/internal/services"
)

const maxImageSize = 20 << 20

// App struct
type App struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *zap.Logger
	sched     *scheduler.Scheduler
	collector *metrics.Collector
	svc       *services.Services
	dbClose   func() error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Config, logger *zap.Logger, sched *scheduler.Scheduler, collector *metrics.Collector, svc *services.Services) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "app")),
		sched:     sched,
		collector: collector,
		svc:       svc,
	}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()
	a.svc.Startup(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.sched.Run(runCtx); err != nil {
			a.logger.Error("scheduler", zap.Error(err))
		}
	}()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.collector.Serve(runCtx, addr); err != nil {
				a.logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	a.logger.Info("started",
		zap.String("api", a.cfg.API.BaseURL),
		zap.Duration("poll_interval", a.cfg.Generation.PollInterval),
		zap.Int("max_concurrent", a.cfg.Generation.MaxConcurrent),
		zap.String("admission_policy", a.cfg.Generation.AdmissionPolicy),
	)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	resetCtx, cancelReset := context.WithTimeout(ctx, 5*time.Second)
	err := a.sched.Do(resetCtx, func(context.Context) { a.svc.Orchestrator.Reset() })
	cancelReset()
	if err != nil && !errors.Is(err, scheduler.ErrStopped) {
		a.logger.Warn("resetting orchestrator", zap.Error(err))
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// SelectImage opens a native file dialog and returns the chosen PNG.
// An empty result means the dialog was cancelled.
func (a *App) SelectImage() ([]byte, error) {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Image",
		Filters: []runtime.FileFilter{
			{DisplayName: "PNG images (*.png)", Pattern: "*.png"},
		},
	})
	if err != nil || path == "" {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxImageSize {
		return nil, fmt.Errorf("image is larger than %d MB", maxImageSize>>20)
	}
	return os.ReadFile(path)
}

// OpenURL opens a result preview or download link in the system browser.
func (a *App) OpenURL(url string) {
	if url == "" {
		return
	}
	runtime.BrowserOpenURL(a.ctx, url)
}
