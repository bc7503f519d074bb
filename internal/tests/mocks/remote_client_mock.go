package mocks

import (
	"context"

	"h3dstudio/internal/models"
)

// RemoteClientMock records every call. Without a func set, Submit returns
// an empty id and FetchStatus returns nothing.
type RemoteClientMock struct {
	SubmitFunc      func(ctx context.Context, req models.GenerationRequest) (string, error)
	FetchStatusFunc func(ctx context.Context, creationID string) (*models.CreationDetails, error)

	Submitted []models.GenerationRequest
	Fetched   []string
}

func (m *RemoteClientMock) Submit(ctx context.Context, req models.GenerationRequest) (string, error) {
	m.Submitted = append(m.Submitted, req)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return "", nil
}

func (m *RemoteClientMock) FetchStatus(ctx context.Context, creationID string) (*models.CreationDetails, error) {
	m.Fetched = append(m.Fetched, creationID)
	if m.FetchStatusFunc != nil {
		return m.FetchStatusFunc(ctx, creationID)
	}
	return nil, nil
}
