package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationResult_Merge_OverwritesRemoteFieldsWithDefaults(t *testing.T) {
	r := &GenerationResult{
		TaskID:           "t-1",
		AssetID:          "a-1",
		Status:           StatusProcessing,
		Progress:         50,
		ProgressGeometry: 100,
		ProgressTexture:  10,
		RemoteUpdatedAt:  99,
		Favorite:         true,
		Saved:            true,
	}

	r.Merge(ResultDetails{TaskID: "t-1"})

	assert.Equal(t, "t-1", r.TaskID)
	assert.Equal(t, "", r.AssetID)
	assert.Equal(t, StatusWait, r.Status)
	assert.Equal(t, 0.0, r.Progress)
	assert.Equal(t, 0.0, r.ProgressGeometry)
	assert.Equal(t, int64(0), r.RemoteUpdatedAt)
	assert.True(t, r.Favorite)
	assert.True(t, r.Saved)
}

func TestGenerationResult_Merge_ClampsProgress(t *testing.T) {
	r := &GenerationResult{}
	r.Merge(ResultDetails{Progress: 120, ProgressGeometry: -3, ProgressTexture: 55})

	assert.Equal(t, 100.0, r.Progress)
	assert.Equal(t, 0.0, r.ProgressGeometry)
	assert.Equal(t, 55.0, r.ProgressTexture)
}

func TestGenerationResult_Merge_EmptyURLResultKeepsPrevious(t *testing.T) {
	r := &GenerationResult{URLs: ResultURLs{GLB: "https://cdn/a.glb"}}

	r.Merge(ResultDetails{URLResult: &URLResultDetails{}})
	assert.Equal(t, "https://cdn/a.glb", r.URLs.GLB)

	r.Merge(ResultDetails{})
	assert.Equal(t, "https://cdn/a.glb", r.URLs.GLB)

	r.Merge(ResultDetails{URLResult: &URLResultDetails{OBJ: "https://cdn/a.obj", ImageURL: "https://cdn/in.png"}})
	assert.Equal(t, "", r.URLs.GLB)
	assert.Equal(t, "https://cdn/a.obj", r.URLs.OBJ)
	assert.Equal(t, "https://cdn/in.png", r.URLs.Image)
}

func TestGenerationResult_Merge_IntermediateMergedIndependently(t *testing.T) {
	r := &GenerationResult{}
	r.Merge(ResultDetails{
		Status: StatusProcessing,
		Intermediate: &IntermediateDetails{Geometry: &IntermediateGeometry{
			GifURL:   "https://cdn/geo.gif",
			GlbURL:   "https://cdn/geo.glb",
			ImageURL: "https://cdn/in.png",
			Created:  1234,
		}},
	})

	assert.Equal(t, IntermediateOutput{
		GIF:     "https://cdn/geo.gif",
		GLB:     "https://cdn/geo.glb",
		Image:   "https://cdn/in.png",
		Created: 1234,
	}, r.Intermediate)
	assert.Equal(t, ResultURLs{}, r.URLs)

	r.Merge(ResultDetails{Intermediate: &IntermediateDetails{}})
	assert.Equal(t, int64(1234), r.Intermediate.Created)
}
