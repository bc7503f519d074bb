package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h3dstudio/internal/config"
	"h3dstudio/internal/database"
	"h3dstudio/internal/models"
	"h3dstudio/internal/scheduler"
	"h3dstudio/internal/services"
)

func TestNewServices_Wiring(t *testing.T) {
	db, err := database.Init(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.FromEnv()
	cfg.API.BaseURL = "http://127.0.0.1:0"
	cfg.Generation.PollInterval = time.Hour

	sched := scheduler.New(nil)
	svc := services.NewServices(cfg, db, keyring.NewArrayKeyring(nil), sched, nil, nil)
	svc.Startup(context.Background())

	settings, err := svc.AppSettings.Get()
	require.NoError(t, err)
	assert.Equal(t, models.StatusFilterAll, settings.StatusFilter)

	require.NoError(t, svc.Credentials.Store("tok", "u-1"))
	assert.True(t, svc.Credentials.HasSession())

	page, err := svc.Generations.List(models.JobFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	// the scheduler is not running yet, so the queue is untouched
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = sched.Do(ctx, func(context.Context) { svc.Orchestrator.Enqueue(models.GenerationRequest{}) })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, svc.Orchestrator.QueueCount())
}
