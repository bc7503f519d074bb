package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h3dstudio/internal/database"
	"h3dstudio/internal/models"
	"h3dstudio/internal/repositories"
)

func newSettingsRepo(t *testing.T) repositories.AppSettingsRepository {
	t.Helper()
	db, err := database.Init(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.NewAppSettingsRepository(db)
}

func TestAppSettingsRepository_GetReturnsDefaultsWhenEmpty(t *testing.T) {
	repo := newSettingsRepo(t)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppSettings(), settings)
}

func TestAppSettingsRepository_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSettingsRepo(t)

	in := models.DefaultAppSettings()
	in.GenerationType = models.GenerationTypeImage
	in.Count = 2
	in.PageSize = 25
	in.PageOrderInvert = true
	require.NoError(t, repo.Update(ctx, in))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, models.GenerationTypeImage, got.GenerationType)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 25, got.PageSize)
	assert.True(t, got.PageOrderInvert)
}

func TestAppSettingsRepository_UpdateNormalizes(t *testing.T) {
	ctx := context.Background()
	repo := newSettingsRepo(t)

	require.NoError(t, repo.Update(ctx, &models.AppSettings{ID: 7, PageSize: 500}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, models.GenerationTypeText, got.GenerationType)
	assert.Equal(t, models.DefaultStyle, got.Style)
	assert.Equal(t, models.StatusFilterAll, got.StatusFilter)
	assert.Equal(t, models.MaxPageSize, got.PageSize)

	require.NoError(t, repo.Update(ctx, &models.AppSettings{PageSize: -3}))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MinPageSize, got.PageSize)

	require.NoError(t, repo.Update(ctx, &models.AppSettings{}))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, got.PageSize)
}

func TestAppSettingsRepository_UpdateRejectsNil(t *testing.T) {
	repo := newSettingsRepo(t)
	assert.EqualError(t, repo.Update(context.Background(), nil), "app settings are required")
}
