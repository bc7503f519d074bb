package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"H3D_API_BASE_URL", "H3D_POLL_INTERVAL", "H3D_MAX_CONCURRENT", "H3D_ADMISSION_POLICY", "H3D_LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://3d.hunyuan.tencent.com", cfg.API.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.Generation.PollInterval)
	assert.Equal(t, 3, cfg.Generation.MaxConcurrent)
	assert.Equal(t, AdmissionInFlight, cfg.Generation.AdmissionPolicy)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("H3D_API_BASE_URL", "http://localhost:9000")
	t.Setenv("H3D_POLL_INTERVAL", "250ms")
	t.Setenv("H3D_MAX_CONCURRENT", "5")
	t.Setenv("H3D_ADMISSION_POLICY", "LEGACY")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Generation.PollInterval)
	assert.Equal(t, 5, cfg.Generation.MaxConcurrent)
	assert.Equal(t, AdmissionLegacy, cfg.Generation.AdmissionPolicy)
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("H3D_MAX_CONCURRENT", "many")
	t.Setenv("H3D_POLL_INTERVAL", "soon")

	cfg := FromEnv()
	assert.Equal(t, 3, cfg.Generation.MaxConcurrent)
	assert.Equal(t, 4*time.Second, cfg.Generation.PollInterval)
}

func TestValidate_Errors(t *testing.T) {
	cfg := FromEnv()
	cfg.API.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = FromEnv()
	cfg.Generation.MaxConcurrent = 0
	assert.EqualError(t, cfg.Validate(), "H3D_MAX_CONCURRENT must be at least 1")

	cfg = FromEnv()
	cfg.Generation.AdmissionPolicy = "fifo"
	assert.Error(t, cfg.Validate())
}
