package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h3dstudio/internal/models"
	"h3dstudio/internal/services"
	"h3dstudio/internal/tests/mocks"
)

func TestAppSettingsService_Get(t *testing.T) {
	svc := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{})

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, models.GenerationTypeText, settings.GenerationType)
	assert.Equal(t, 4, settings.Count)
}

func TestAppSettingsService_Update(t *testing.T) {
	var saved *models.AppSettings
	repo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(_ context.Context, s *models.AppSettings) error {
			saved = s
			return nil
		},
	}
	svc := services.NewAppSettingsService(repo)

	in := *models.DefaultAppSettings()
	in.GenerationType = models.GenerationTypeImage
	in.OctreeResolution = 512
	in.Style = ""
	in.StatusFilter = ""
	in.PageSize = 30

	got, err := svc.Update(in)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Same(t, saved, got)
	assert.Equal(t, models.GenerationTypeImage, got.GenerationType)
	assert.Equal(t, 512, got.OctreeResolution)
	assert.Equal(t, models.DefaultStyle, got.Style)
	assert.Equal(t, models.StatusFilterAll, got.StatusFilter)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestAppSettingsService_Update_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.AppSettings)
		wantErr string
	}{
		{"type", func(s *models.AppSettings) { s.GenerationType = "VIDEO" }, `generation type must be "TEXT_TO_3D" or "IMAGE_TO_3D"`},
		{"count", func(s *models.AppSettings) { s.Count = 13 }, "count must be between 1 and 12"},
		{"resolution", func(s *models.AppSettings) { s.OctreeResolution = 300 }, "octree resolution must be one of [256 384 512]"},
		{"steps", func(s *models.AppSettings) { s.InferenceSteps = 51 }, "inference steps must be between 5 and 50"},
		{"guidance", func(s *models.AppSettings) { s.GuidanceScale = 0.5 }, "guidance scale must be between 1.0 and 15.0"},
		{"faces", func(s *models.AppSettings) { s.FaceCount = 500 }, "face count must be between 10000 and 100000"},
		{"status", func(s *models.AppSettings) { s.StatusFilter = "done" }, "status filter must be ALL or a generation status"},
		{"page size", func(s *models.AppSettings) { s.PageSize = 0 }, "page size must be between 1 and 30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{
				UpdateFunc: func(context.Context, *models.AppSettings) error {
					t.Fatal("invalid settings must not be stored")
					return nil
				},
			})
			in := *models.DefaultAppSettings()
			tt.mutate(&in)
			_, err := svc.Update(in)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestAppSettingsService_Update_RepositoryError(t *testing.T) {
	svc := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{
		GetFunc: func(context.Context) (*models.AppSettings, error) {
			return nil, errors.New("db locked")
		},
	})
	_, err := svc.Update(*models.DefaultAppSettings())
	assert.EqualError(t, err, "db locked")
}
