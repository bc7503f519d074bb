package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"h3dstudio/internal/models"
	"h3dstudio/internal/repositories"
)

// TaskRunner runs a closure on the scheduler goroutine and waits for it.
type TaskRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context)) error
}

// GenerationStats is the orchestrator state shown next to the form.
type GenerationStats struct {
	Queued     int      `json:"queued"`
	Processing int      `json:"processing"`
	Running    []string `json:"running"`
}

// GenerationService is the frontend entry point for generations. Calls that
// touch the orchestrator or write to the store are funneled through the
// scheduler so they never race a tick.
type GenerationService struct {
	context      context.Context
	orchestrator *Orchestrator
	jobs         repositories.GenerationJobRepository
	runner       TaskRunner
	logger       *zap.Logger
}

func NewGenerationService(orchestrator *Orchestrator, jobs repositories.GenerationJobRepository, runner TaskRunner, logger *zap.Logger) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		orchestrator: orchestrator,
		jobs:         jobs,
		runner:       runner,
		logger:       logger.With(zap.String("component", "generation_service")),
	}
}

func (s *GenerationService) Startup(ctx context.Context) {
	s.context = ctx
}

func (s *GenerationService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}

// Generate validates the form input and queues the request.
func (s *GenerationService) Generate(params models.GenerationParams) (*GenerationStats, error) {
	req, err := models.NewGenerationRequest(params)
	if err != nil {
		return nil, err
	}

	var stats GenerationStats
	err = s.runner.Do(s.ctx(), func(context.Context) {
		s.orchestrator.Enqueue(req)
		stats = s.stats()
	})
	if err != nil {
		return nil, fmt.Errorf("queueing generation: %w", err)
	}
	s.logger.Info("generation queued",
		zap.String("title", req.Title),
		zap.Int("count", req.Count),
		zap.Bool("image", req.HasImage()),
		zap.Int("queued", stats.Queued),
	)
	return &stats, nil
}

func (s *GenerationService) Stats() (*GenerationStats, error) {
	var stats GenerationStats
	if err := s.runner.Do(s.ctx(), func(context.Context) { stats = s.stats() }); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *GenerationService) stats() GenerationStats {
	return GenerationStats{
		Queued:     s.orchestrator.QueueCount(),
		Processing: s.orchestrator.ProcessingCount(),
		Running:    s.orchestrator.Running(),
	}
}

func (s *GenerationService) List(filter models.JobFilter) (*models.JobPage, error) {
	status := strings.TrimSpace(filter.Status)
	if status != "" && status != models.StatusFilterAll && !models.GenerationStatus(status).Valid() {
		return nil, fmt.Errorf("unknown status filter %q", filter.Status)
	}
	filter.Status = status
	return s.jobs.ListJobs(s.ctx(), filter)
}

func (s *GenerationService) Get(creationID string) (*models.GenerationJob, error) {
	creationID = strings.TrimSpace(creationID)
	if creationID == "" {
		return nil, fmt.Errorf("creation id is required")
	}
	job, err := s.jobs.GetJob(s.ctx(), creationID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, repositories.ErrJobNotFound
	}
	return job, nil
}

func (s *GenerationService) SetFavorite(creationID, taskID string, favorite bool) (*models.GenerationResult, error) {
	return s.setFlags(creationID, taskID, &favorite, nil)
}

func (s *GenerationService) SetSaved(creationID, taskID string, saved bool) (*models.GenerationResult, error) {
	return s.setFlags(creationID, taskID, nil, &saved)
}

func (s *GenerationService) setFlags(creationID, taskID string, favorite, saved *bool) (*models.GenerationResult, error) {
	if creationID == "" || taskID == "" {
		return nil, fmt.Errorf("creation id and task id are required")
	}
	var (
		res *models.GenerationResult
		err error
	)
	if doErr := s.runner.Do(s.ctx(), func(ctx context.Context) {
		res, err = s.jobs.SetResultFlags(ctx, creationID, taskID, favorite, saved)
	}); doErr != nil {
		return nil, doErr
	}
	return res, err
}

// Delete removes a finished generation. Jobs still being polled cannot be
// withdrawn.
func (s *GenerationService) Delete(creationID string) error {
	creationID = strings.TrimSpace(creationID)
	if creationID == "" {
		return fmt.Errorf("creation id is required")
	}
	var err error
	if doErr := s.runner.Do(s.ctx(), func(ctx context.Context) {
		if s.orchestrator.IsRunning(creationID) {
			err = fmt.Errorf("generation %s is still running", creationID)
			return
		}
		err = s.jobs.RemoveJob(ctx, creationID)
	}); doErr != nil {
		return doErr
	}
	if err == nil {
		s.logger.Info("generation deleted", zap.String("creation_id", creationID))
	}
	return err
}
