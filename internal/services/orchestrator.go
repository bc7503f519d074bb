package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"h3dstudio/internal/config"
	"h3dstudio/internal/events"
	"h3dstudio/internal/metrics"
	"h3dstudio/internal/models"
	"h3dstudio/internal/scheduler"
)

const (
	GenerationTimer = "generation_timer"

	DefaultPollInterval  = 4 * time.Second
	DefaultMaxConcurrent = 3
)

// RemoteClient submits generation requests and fetches creation snapshots.
type RemoteClient interface {
	Submit(ctx context.Context, req models.GenerationRequest) (string, error)
	FetchStatus(ctx context.Context, creationID string) (*models.CreationDetails, error)
}

// JobStore is the part of the job record store the orchestrator writes to.
type JobStore interface {
	FindOrCreateJob(ctx context.Context, creationID string) (*models.GenerationJob, error)
	SaveJob(ctx context.Context, job *models.GenerationJob) error
	RemoveJob(ctx context.Context, creationID string) error
}

// TimerHost registers named re-armable callbacks.
type TimerHost interface {
	Register(name string, fn scheduler.TimerFunc, first time.Duration) bool
}

type OrchestratorOptions struct {
	MaxConcurrent   int
	PollInterval    time.Duration
	AdmissionPolicy string // config.AdmissionInFlight or config.AdmissionLegacy
	Logger          *zap.Logger
	Metrics         *metrics.Collector
}

// Orchestrator drains the generation queue under a concurrency cap, polls
// the submitted jobs and reconciles their snapshots into the store.
//
// It is not safe for concurrent use. Every method must be called from the
// scheduler goroutine, which is also where Tick runs.
type Orchestrator struct {
	client RemoteClient
	store  JobStore
	timers TimerHost

	maxConcurrent int
	interval      time.Duration
	policy        string

	queue      []models.GenerationRequest
	processing int
	running    map[string]*models.GenerationJob
	order      []string

	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewOrchestrator(client RemoteClient, store JobStore, timers TimerHost, opts OrchestratorOptions) *Orchestrator {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.AdmissionPolicy != config.AdmissionLegacy {
		opts.AdmissionPolicy = config.AdmissionInFlight
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		client:        client,
		store:         store,
		timers:        timers,
		maxConcurrent: opts.MaxConcurrent,
		interval:      opts.PollInterval,
		policy:        opts.AdmissionPolicy,
		running:       make(map[string]*models.GenerationJob),
		logger:        opts.Logger.With(zap.String("component", "orchestrator")),
		metrics:       opts.Metrics,
	}
}

// Enqueue appends req to the queue and makes sure the timer is armed.
func (o *Orchestrator) Enqueue(req models.GenerationRequest) {
	o.queue = append(o.queue, req)
	o.logger.Debug("generation enqueued", zap.Int("queued", len(o.queue)))
	o.metrics.SetQueue(len(o.queue), o.processing, len(o.running))

	if o.timers != nil && o.timers.Register(GenerationTimer, o.Tick, 0) {
		o.logger.Debug("generation timer armed")
	}
}

// Tick runs one admission and polling round. It returns the delay before
// the next round, or scheduler.Stop once there is nothing left to do.
func (o *Orchestrator) Tick(ctx context.Context) (next time.Duration) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("generation tick panicked", zap.String("panic", fmt.Sprint(r)))
			next = o.interval
		}
		o.metrics.ObserveTick(time.Since(start))
		o.metrics.SetQueue(len(o.queue), o.processing, len(o.running))
	}()

	for o.processing < o.maxConcurrent && len(o.queue) > 0 {
		req := o.queue[0]
		o.queue[0] = models.GenerationRequest{}
		o.queue = o.queue[1:]

		id, err := o.client.Submit(ctx, req)
		if err != nil || id == "" {
			o.metrics.RecordSubmission(false)
			o.reportSubmitFailure(ctx, req, err)
			return o.interval
		}
		o.metrics.RecordSubmission(true)
		o.track(ctx, id, req)
	}

	if len(o.running) == 0 && len(o.queue) == 0 {
		o.logger.Debug("generation timer stopped")
		return scheduler.Stop
	}

	o.poll(ctx)

	events.Emit(ctx, events.GenerationRedraw, events.NewInfo("redraw"))
	return o.interval
}

func (o *Orchestrator) reportSubmitFailure(ctx context.Context, req models.GenerationRequest, err error) {
	if err == nil {
		err = errors.New("empty creation id")
	}
	o.logger.Error("generation submission failed",
		zap.String("title", req.Title),
		zap.Int("count", req.Count),
		zap.Error(err),
	)
	events.Emit(ctx, events.GenerationError,
		events.NewError(fmt.Sprintf("generation request failed: %v", err)).WithMeta("title", req.Title))
}

// track records a submitted creation and starts polling it.
func (o *Orchestrator) track(ctx context.Context, creationID string, req models.GenerationRequest) {
	job, err := o.store.FindOrCreateJob(ctx, creationID)
	if err != nil {
		o.logger.Error("creating generation record", zap.String("creation_id", creationID), zap.Error(err))
		job = models.NewGenerationJob(creationID)
	}
	job.ApplyRequest(req)
	o.save(ctx, job)

	// a repeated creation id is already counted
	if _, ok := o.running[creationID]; !ok {
		o.order = append(o.order, creationID)
		switch o.policy {
		case config.AdmissionLegacy:
			o.processing--
		default:
			o.processing++
		}
	}
	o.running[creationID] = job
}

func (o *Orchestrator) poll(ctx context.Context) {
	var finished []string
	for _, id := range o.order {
		job := o.running[id]

		d, err := o.client.FetchStatus(ctx, id)
		if err != nil || d == nil {
			o.metrics.RecordPoll(false)
			o.logger.Debug("creation status unavailable", zap.String("creation_id", id), zap.Error(err))
			continue
		}
		o.metrics.RecordPoll(true)

		if err := job.Merge(d); err != nil {
			o.logger.Warn("merging creation status", zap.String("creation_id", id), zap.Error(err))
			continue
		}

		switch job.Status {
		case models.StatusSuccess:
			o.save(ctx, job)
			finished = append(finished, id)
		case models.StatusFail:
			if err := o.store.RemoveJob(ctx, id); err != nil {
				o.logger.Error("removing failed generation", zap.String("creation_id", id), zap.Error(err))
			}
			finished = append(finished, id)
		default:
			o.save(ctx, job)
		}
	}

	for _, id := range finished {
		o.finish(ctx, id)
	}
}

func (o *Orchestrator) finish(ctx context.Context, creationID string) {
	job := o.running[creationID]
	delete(o.running, creationID)
	for i, id := range o.order {
		if id == creationID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	// legacy arithmetic only releases a slot on success
	if o.policy != config.AdmissionLegacy || job.Status == models.StatusSuccess {
		o.processing--
	}

	o.metrics.RecordFinished(string(job.Status))
	o.logger.Info("generation finished",
		zap.String("creation_id", creationID),
		zap.String("status", string(job.Status)),
		zap.Int("results", len(job.Results)),
	)

	evt := events.NewSuccess("generation finished")
	if job.Status == models.StatusFail {
		evt = events.NewError("generation failed")
	}
	events.Emit(events.WithCreation(ctx, creationID), events.GenerationDone, evt.WithMeta("status", string(job.Status)))
}

func (o *Orchestrator) save(ctx context.Context, job *models.GenerationJob) {
	if err := o.store.SaveJob(ctx, job); err != nil {
		o.logger.Error("saving generation", zap.String("creation_id", job.CreationID), zap.Error(err))
	}
}

func (o *Orchestrator) QueueCount() int { return len(o.queue) }

func (o *Orchestrator) ProcessingCount() int { return o.processing }

// Running returns the tracked creation ids in submission order.
func (o *Orchestrator) Running() []string {
	return append([]string(nil), o.order...)
}

func (o *Orchestrator) IsRunning(creationID string) bool {
	_, ok := o.running[creationID]
	return ok
}

// Reset drops queued requests and stops tracking in-flight jobs. Stored
// records are left as they are.
func (o *Orchestrator) Reset() {
	o.queue = nil
	o.processing = 0
	o.running = make(map[string]*models.GenerationJob)
	o.order = nil
	o.metrics.SetQueue(0, 0, 0)
}
