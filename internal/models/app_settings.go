package models

import "time"

const (
	GenerationTypeText  = "TEXT_TO_3D"
	GenerationTypeImage = "IMAGE_TO_3D"

	MinPageSize, MaxPageSize = 1, 30
)

// AppSettings persists the generation form defaults and the list view
// preferences. Single-row table (ID=1).
type AppSettings struct {
	ID      uint `gorm:"primaryKey"`
	Version int  `gorm:"not null;default:1"`

	GenerationType   string  `gorm:"size:16;not null" json:"generationType"`
	Count            int     `gorm:"not null" json:"count"`
	Style            string  `gorm:"size:64;not null" json:"style"`
	UsePBR           bool    `json:"usePbr"`
	RemoveBackground bool    `json:"removeBackground"`
	OctreeResolution int     `gorm:"not null" json:"octreeResolution"`
	InferenceSteps   int     `gorm:"not null" json:"inferenceSteps"`
	GuidanceScale    float64 `gorm:"not null" json:"guidanceScale"`
	FaceCount        int     `gorm:"not null" json:"faceCount"`

	StatusFilter    string `gorm:"size:16;not null" json:"statusFilter"`
	PageSize        int    `gorm:"not null" json:"pageSize"`
	PageOrderInvert bool   `json:"pageOrderInvert"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultAppSettings mirrors the defaults of the generation form.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		ID:               1,
		Version:          1,
		GenerationType:   GenerationTypeText,
		Count:            4,
		Style:            DefaultStyle,
		UsePBR:           true,
		RemoveBackground: true,
		OctreeResolution: 256,
		InferenceSteps:   5,
		GuidanceScale:    5.0,
		FaceCount:        40000,
		StatusFilter:     StatusFilterAll,
		PageSize:         10,
	}
}
