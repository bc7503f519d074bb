package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() GenerationParams {
	return GenerationParams{
		Prompt:           "  a wooden barrel ",
		Style:            DefaultStyle,
		Count:            4,
		UsePBR:           true,
		OctreeResolution: 384,
		InferenceSteps:   20,
		GuidanceScale:    7.5,
		FaceCount:        40000,
	}
}

func TestNewGenerationRequest_Success(t *testing.T) {
	req, err := NewGenerationRequest(validParams())
	require.NoError(t, err)

	assert.Equal(t, "a wooden barrel", req.Prompt)
	assert.Equal(t, "a wooden barrel", req.Title)
	assert.Equal(t, "", req.Style)
	assert.Equal(t, 4, req.Count)
	assert.True(t, req.EnablePBR)
	assert.False(t, req.EnableLowPoly)
	assert.Equal(t, 384, req.OctreeResolution)
	assert.Equal(t, 20, req.InferenceSteps)
	assert.Equal(t, 7.5, req.GuidanceScale)
	assert.False(t, req.HasImage())
	assert.Equal(t, "", req.ImageDataURI())
}

func TestNewGenerationRequest_CountOutOfRange(t *testing.T) {
	p := validParams()
	p.Count = 0
	_, err := NewGenerationRequest(p)
	assert.EqualError(t, err, "count must be between 1 and 12")

	p.Count = 13
	_, err = NewGenerationRequest(p)
	assert.Error(t, err)
}

func TestNewGenerationRequest_RequiresPromptOrImage(t *testing.T) {
	p := validParams()
	p.Prompt = " \t"
	_, err := NewGenerationRequest(p)
	assert.EqualError(t, err, "please provide either a prompt or an image")
}

func TestNewGenerationRequest_ImageOnlyUsesDefaultPrompt(t *testing.T) {
	p := validParams()
	p.Prompt = ""
	p.Image = []byte{0x89, 'P', 'N', 'G'}

	req, err := NewGenerationRequest(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultImagePrompt, req.Prompt)
	assert.Equal(t, DefaultImagePrompt, req.Title)
	assert.True(t, req.HasImage())
	assert.Equal(t, "data:image/png;base64,iVBORw==", req.ImageDataURI())
}

func TestNewGenerationRequest_CopiesImage(t *testing.T) {
	p := validParams()
	p.Image = []byte{0x89, 'P', 'N', 'G'}

	req, err := NewGenerationRequest(p)
	require.NoError(t, err)

	p.Image[0] = 0x00
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, req.Image)
}

func TestNewGenerationRequest_ClampsAdvancedParameters(t *testing.T) {
	p := validParams()
	p.InferenceSteps = 1
	p.GuidanceScale = 30
	p.FaceCount = 500

	req, err := NewGenerationRequest(p)
	require.NoError(t, err)
	assert.Equal(t, MinInferenceSteps, req.InferenceSteps)
	assert.Equal(t, MaxGuidanceScale, req.GuidanceScale)
	assert.Equal(t, MinFaceCount, req.FaceCount)
}

func TestNewGenerationRequest_Resolution(t *testing.T) {
	p := validParams()
	p.OctreeResolution = 0
	req, err := NewGenerationRequest(p)
	require.NoError(t, err)
	assert.Equal(t, 256, req.OctreeResolution)

	p.OctreeResolution = 300
	_, err = NewGenerationRequest(p)
	assert.EqualError(t, err, "octree resolution must be one of [256 384 512]")
}
