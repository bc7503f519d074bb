package mocks

import (
	"context"

	"h3dstudio/internal/models"
)

type GenerationJobRepositoryMock struct {
	FindOrCreateJobFunc func(ctx context.Context, creationID string) (*models.GenerationJob, error)
	GetJobFunc          func(ctx context.Context, creationID string) (*models.GenerationJob, error)
	ListJobsFunc        func(ctx context.Context, filter models.JobFilter) (*models.JobPage, error)
	SaveJobFunc         func(ctx context.Context, job *models.GenerationJob) error
	RemoveJobFunc       func(ctx context.Context, creationID string) error
	RemoveResultFunc    func(ctx context.Context, creationID, taskID string) error
	SetResultFlagsFunc  func(ctx context.Context, creationID, taskID string, favorite, saved *bool) (*models.GenerationResult, error)
}

func (m *GenerationJobRepositoryMock) FindOrCreateJob(ctx context.Context, creationID string) (*models.GenerationJob, error) {
	if m.FindOrCreateJobFunc != nil {
		return m.FindOrCreateJobFunc(ctx, creationID)
	}
	return models.NewGenerationJob(creationID), nil
}

func (m *GenerationJobRepositoryMock) GetJob(ctx context.Context, creationID string) (*models.GenerationJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, creationID)
	}
	return nil, nil
}

func (m *GenerationJobRepositoryMock) ListJobs(ctx context.Context, filter models.JobFilter) (*models.JobPage, error) {
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, filter)
	}
	f := filter.Normalize()
	return &models.JobPage{Page: f.Page, PageSize: f.PageSize}, nil
}

func (m *GenerationJobRepositoryMock) SaveJob(ctx context.Context, job *models.GenerationJob) error {
	if m.SaveJobFunc != nil {
		return m.SaveJobFunc(ctx, job)
	}
	return nil
}

func (m *GenerationJobRepositoryMock) RemoveJob(ctx context.Context, creationID string) error {
	if m.RemoveJobFunc != nil {
		return m.RemoveJobFunc(ctx, creationID)
	}
	return nil
}

func (m *GenerationJobRepositoryMock) RemoveResult(ctx context.Context, creationID, taskID string) error {
	if m.RemoveResultFunc != nil {
		return m.RemoveResultFunc(ctx, creationID, taskID)
	}
	return nil
}

func (m *GenerationJobRepositoryMock) SetResultFlags(ctx context.Context, creationID, taskID string, favorite, saved *bool) (*models.GenerationResult, error) {
	if m.SetResultFlagsFunc != nil {
		return m.SetResultFlagsFunc(ctx, creationID, taskID, favorite, saved)
	}
	return &models.GenerationResult{TaskID: taskID}, nil
}
