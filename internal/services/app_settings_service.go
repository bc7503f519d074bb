package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"h3dstudio/internal/models"
	"h3dstudio/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(settings models.AppSettings) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	context     context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(s.ctx())
}

// Update replaces the form defaults and list preferences.
func (s *appSettingsService) Update(settings models.AppSettings) (*models.AppSettings, error) {
	if err := validateAppSettings(&settings); err != nil {
		return nil, err
	}

	current, err := s.appSettings.Get(s.ctx())
	if err != nil {
		return nil, err
	}

	current.GenerationType = settings.GenerationType
	current.Count = settings.Count
	current.Style = settings.Style
	current.UsePBR = settings.UsePBR
	current.RemoveBackground = settings.RemoveBackground
	current.OctreeResolution = settings.OctreeResolution
	current.InferenceSteps = settings.InferenceSteps
	current.GuidanceScale = settings.GuidanceScale
	current.FaceCount = settings.FaceCount
	current.StatusFilter = settings.StatusFilter
	current.PageSize = settings.PageSize
	current.PageOrderInvert = settings.PageOrderInvert
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(s.ctx(), current); err != nil {
		return nil, err
	}

	return current, nil
}

func validateAppSettings(s *models.AppSettings) error {
	if s.GenerationType != models.GenerationTypeText && s.GenerationType != models.GenerationTypeImage {
		return fmt.Errorf("generation type must be %q or %q", models.GenerationTypeText, models.GenerationTypeImage)
	}
	if s.Count < models.MinCount || s.Count > models.MaxCount {
		return fmt.Errorf("count must be between %d and %d", models.MinCount, models.MaxCount)
	}
	if s.Style == "" {
		s.Style = models.DefaultStyle
	}
	if !slices.Contains(models.OctreeResolutions, s.OctreeResolution) {
		return fmt.Errorf("octree resolution must be one of %v", models.OctreeResolutions)
	}
	if s.InferenceSteps < models.MinInferenceSteps || s.InferenceSteps > models.MaxInferenceSteps {
		return fmt.Errorf("inference steps must be between %d and %d", models.MinInferenceSteps, models.MaxInferenceSteps)
	}
	if s.GuidanceScale < models.MinGuidanceScale || s.GuidanceScale > models.MaxGuidanceScale {
		return fmt.Errorf("guidance scale must be between %.1f and %.1f", models.MinGuidanceScale, models.MaxGuidanceScale)
	}
	if s.FaceCount < models.MinFaceCount || s.FaceCount > models.MaxFaceCount {
		return fmt.Errorf("face count must be between %d and %d", models.MinFaceCount, models.MaxFaceCount)
	}
	if s.StatusFilter == "" {
		s.StatusFilter = models.StatusFilterAll
	}
	if s.StatusFilter != models.StatusFilterAll && !models.GenerationStatus(s.StatusFilter).Valid() {
		return errors.New("status filter must be ALL or a generation status")
	}
	if s.PageSize < models.MinPageSize || s.PageSize > models.MaxPageSize {
		return fmt.Errorf("page size must be between %d and %d", models.MinPageSize, models.MaxPageSize)
	}
	return nil
}
