package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"h3dstudio/internal/models"
)

// AppSettingsRepository stores the single row of form defaults and list
// view preferences.
type AppSettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, settings *models.AppSettings) error
}

type appSettingsRepository struct {
	db *gorm.DB
}

func NewAppSettingsRepository(db *gorm.DB) AppSettingsRepository {
	return &appSettingsRepository{db: db}
}

// Get falls back to models.DefaultAppSettings until the first Update.
func (r *appSettingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := r.db.WithContext(ctx).First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultAppSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update normalizes settings in place before saving them as row 1.
func (r *appSettingsRepository) Update(ctx context.Context, settings *models.AppSettings) error {
	if settings == nil {
		return errors.New("app settings are required")
	}
	normalizeAppSettings(settings)
	return r.db.WithContext(ctx).Save(settings).Error
}

func normalizeAppSettings(s *models.AppSettings) {
	def := models.DefaultAppSettings()
	s.ID = 1
	if s.Version < 1 {
		s.Version = def.Version
	}
	if s.GenerationType != models.GenerationTypeText && s.GenerationType != models.GenerationTypeImage {
		s.GenerationType = def.GenerationType
	}
	if s.Style == "" {
		s.Style = def.Style
	}
	if s.StatusFilter == "" {
		s.StatusFilter = def.StatusFilter
	}
	switch {
	case s.PageSize == 0:
		s.PageSize = def.PageSize
	case s.PageSize < models.MinPageSize:
		s.PageSize = models.MinPageSize
	case s.PageSize > models.MaxPageSize:
		s.PageSize = models.MaxPageSize
	}
}
