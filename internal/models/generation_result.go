package models

import "time"

// GenerationResult is one generated variant of a job, keyed by task id.
// Favorite and Saved belong to the user and are never touched by Merge.
type GenerationResult struct {
	ID               uint             `gorm:"primaryKey" json:"-"`
	JobID            uint             `gorm:"not null;uniqueIndex:idx_result_job_task" json:"-"`
	TaskID           string           `gorm:"size:128;not null;uniqueIndex:idx_result_job_task" json:"taskId"`
	AssetID          string           `gorm:"size:128" json:"assetId"`
	Status           GenerationStatus `gorm:"size:16;not null" json:"status"`
	Progress         float64          `json:"progress"`
	ProgressGeometry float64          `json:"progressGeometry"`
	ProgressTexture  float64          `json:"progressTexture"`
	RemoteCreatedAt  int64            `json:"createdAt"`
	RemoteUpdatedAt  int64            `json:"updatedAt"`

	URLs         ResultURLs         `gorm:"embedded;embeddedPrefix:url_" json:"urlResult"`
	Intermediate IntermediateOutput `gorm:"embedded;embeddedPrefix:intermediate_" json:"intermediateOutput"`

	Favorite bool `json:"favorite"`
	Saved    bool `json:"saved"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ResultURLs holds the downloadable files and previews of a finished variant.
type ResultURLs struct {
	GLB         string `gorm:"type:text" json:"glb"`
	GIF         string `gorm:"type:text" json:"gif"`
	OBJ         string `gorm:"type:text" json:"obj"`
	MTL         string `gorm:"type:text" json:"mtl"`
	Image       string `gorm:"type:text" json:"image"`
	GeometryGIF string `gorm:"type:text" json:"geometryGif"`
	GeometryGLB string `gorm:"type:text" json:"geometryGlb"`
	TextureGIF  string `gorm:"type:text" json:"textureGif"`
	TextureOBJ  string `gorm:"type:text" json:"textureObj"`
	TextureGLB  string `gorm:"type:text" json:"textureGlb"`
	ObjURL      string `gorm:"type:text" json:"objUrl"`
	FBX         string `gorm:"type:text" json:"fbx"`
}

// IntermediateOutput is the geometry-stage preview published before texturing ends.
type IntermediateOutput struct {
	GIF     string `gorm:"type:text" json:"gif"`
	GLB     string `gorm:"type:text" json:"glb"`
	Image   string `gorm:"type:text" json:"image"`
	Created int64  `json:"created"`
}

// Merge overwrites every remote-sourced field with the snapshot value, or the
// field default when the snapshot omits it. The task id is the identity and
// is kept. URL results are only replaced by a non-empty object. The
// intermediate geometry output is merged on its own whenever present.
func (r *GenerationResult) Merge(d ResultDetails) {
	r.AssetID = d.AssetID
	r.Status = d.Status
	if r.Status == "" {
		r.Status = StatusWait
	}
	r.RemoteCreatedAt = d.CreatedAt
	r.RemoteUpdatedAt = d.UpdatedAt
	r.Progress = clampFloat(d.Progress, 0, 100)
	r.ProgressGeometry = clampFloat(d.ProgressGeometry, 0, 100)
	r.ProgressTexture = clampFloat(d.ProgressTexture, 0, 100)

	if !d.URLResult.Empty() {
		u := d.URLResult
		r.URLs = ResultURLs{
			GLB:         u.GLB,
			GIF:         u.GIF,
			OBJ:         u.OBJ,
			MTL:         u.MTL,
			Image:       u.ImageURL,
			GeometryGIF: u.GeometryGIF,
			GeometryGLB: u.GeometryGLB,
			TextureGIF:  u.TextureGIF,
			TextureOBJ:  u.TextureOBJ,
			TextureGLB:  u.TextureGLB,
			ObjURL:      u.ObjURL,
			FBX:         u.FBX,
		}
	}

	if d.Intermediate != nil && d.Intermediate.Geometry != nil {
		g := d.Intermediate.Geometry
		r.Intermediate = IntermediateOutput{
			GIF:     g.GifURL,
			GLB:     g.GlbURL,
			Image:   g.ImageURL,
			Created: g.Created,
		}
	}
}

// Done reports whether the variant can be imported.
func (r *GenerationResult) Done() bool {
	return r.Status == StatusSuccess
}
