package services

import (
	"context"

	"github.com/99designs/keyring"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"h3dstudio/internal/config"
	"h3dstudio/internal/h3d"
	"h3dstudio/internal/metrics"
	"h3dstudio/internal/repositories"
	"h3dstudio/internal/scheduler"
)

// Services aggregates the domain services bound to the frontend together
// with the orchestrator they share.
type Services struct {
	Generations  *GenerationService
	Credentials  *CredentialsService
	AppSettings  AppSettingsService
	Orchestrator *Orchestrator
}

// NewServices wires repositories backed by db, the remote client and the
// orchestrator. The orchestrator timers and every store write run on sched.
func NewServices(cfg *config.Config, db *gorm.DB, ring keyring.Keyring, sched *scheduler.Scheduler, collector *metrics.Collector, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	jobRepo := repositories.NewGenerationJobRepository(db)
	settingsRepo := repositories.NewAppSettingsRepository(db)

	credentials := NewCredentialsService(ring)
	client := h3d.NewClient(cfg.API.BaseURL, credentials,
		h3d.WithTimeout(cfg.API.RequestTimeout),
		h3d.WithLogger(logger),
	)
	orchestrator := NewOrchestrator(client, jobRepo, sched, OrchestratorOptions{
		MaxConcurrent:   cfg.Generation.MaxConcurrent,
		PollInterval:    cfg.Generation.PollInterval,
		AdmissionPolicy: cfg.Generation.AdmissionPolicy,
		Logger:          logger,
		Metrics:         collector,
	})

	return &Services{
		Generations:  NewGenerationService(orchestrator, jobRepo, sched, logger),
		Credentials:  credentials,
		AppSettings:  NewAppSettingsService(settingsRepo),
		Orchestrator: orchestrator,
	}
}

// Startup hands the host context to the services that keep one.
func (s *Services) Startup(ctx context.Context) {
	s.Generations.Startup(ctx)
	s.AppSettings.Startup(ctx)
}
