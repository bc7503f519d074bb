package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultSceneType   = "playGround3D-2.0"
	DefaultModelType   = "modelCreationV2.5"
	DefaultImagePrompt = "high quality 3D model"
	DefaultStyle       = "DEFAULT"

	MaxPromptLength = 150

	MinCount, MaxCount                   = 1, 12
	MinInferenceSteps, MaxInferenceSteps = 5, 50
	MinGuidanceScale, MaxGuidanceScale   = 1.0, 15.0
	MinFaceCount, MaxFaceCount           = 10000, 100000
)

// OctreeResolutions lists the mesh resolutions accepted by the service.
var OctreeResolutions = []int{256, 384, 512}

// GenerationRequest is one queued submission. It is passed by value and
// owns its image bytes, so a queued request cannot change after Enqueue.
type GenerationRequest struct {
	Prompt           string
	Title            string
	Style            string
	Count            int
	EnablePBR        bool
	EnableLowPoly    bool
	Image            []byte // PNG-encoded, nil for text-to-3D
	RemoveBackground bool
	OctreeResolution int
	InferenceSteps   int
	GuidanceScale    float64
	FaceCount        int
}

// GenerationParams is the raw form input coming from the frontend.
type GenerationParams struct {
	Prompt           string  `json:"prompt"`
	Style            string  `json:"style"`
	Count            int     `json:"count"`
	UsePBR           bool    `json:"usePbr"`
	Image            []byte  `json:"image,omitempty"`
	RemoveBackground bool    `json:"removeBackground"`
	OctreeResolution int     `json:"octreeResolution"`
	InferenceSteps   int     `json:"inferenceSteps"`
	GuidanceScale    float64 `json:"guidanceScale"`
	FaceCount        int     `json:"faceCount"`
}

// NewGenerationRequest validates params and fills in the derived fields.
// An image without a prompt gets DefaultImagePrompt; the title mirrors the prompt.
func NewGenerationRequest(p GenerationParams) (GenerationRequest, error) {
	if p.Count < MinCount || p.Count > MaxCount {
		return GenerationRequest{}, fmt.Errorf("count must be between %d and %d", MinCount, MaxCount)
	}

	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" && len(p.Image) == 0 {
		return GenerationRequest{}, errors.New("please provide either a prompt or an image")
	}
	if prompt == "" {
		prompt = DefaultImagePrompt
	}

	style := strings.TrimSpace(p.Style)
	if style == DefaultStyle {
		style = ""
	}

	resolution := p.OctreeResolution
	if resolution == 0 {
		resolution = OctreeResolutions[0]
	}
	if !ValidOctreeResolution(resolution) {
		return GenerationRequest{}, fmt.Errorf("octree resolution must be one of %v", OctreeResolutions)
	}

	return GenerationRequest{
		Prompt:           prompt,
		Title:            prompt,
		Style:            style,
		Count:            p.Count,
		EnablePBR:        p.UsePBR,
		Image:            bytes.Clone(p.Image),
		RemoveBackground: p.RemoveBackground,
		OctreeResolution: resolution,
		InferenceSteps:   clampInt(p.InferenceSteps, MinInferenceSteps, MaxInferenceSteps),
		GuidanceScale:    clampFloat(p.GuidanceScale, MinGuidanceScale, MaxGuidanceScale),
		FaceCount:        clampInt(p.FaceCount, MinFaceCount, MaxFaceCount),
	}, nil
}

// HasImage reports whether this is an image-to-3D request.
func (r GenerationRequest) HasImage() bool {
	return len(r.Image) > 0
}

// ImageDataURI returns the image as a base64 PNG data URI, or "" when absent.
func (r GenerationRequest) ImageDataURI() string {
	if !r.HasImage() {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.Image)
}

func ValidOctreeResolution(v int) bool {
	for _, r := range OctreeResolutions {
		if r == v {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
