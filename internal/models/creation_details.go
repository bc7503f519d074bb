package models

// CreationDetails is the remote status snapshot of one creation.
// Job-level fields are pointers so that fields missing from the response
// leave the local value untouched during Merge.
type CreationDetails struct {
	ID         *string           `json:"id,omitempty"`
	UserID     *string           `json:"userId,omitempty"`
	SceneType  *string           `json:"sceneType,omitempty"`
	ModelType  *string           `json:"modelType,omitempty"`
	Prompt     *string           `json:"prompt,omitempty"`
	Title      *string           `json:"title,omitempty"`
	Style      *string           `json:"style,omitempty"`
	Count      *int              `json:"n,omitempty"`
	Status     *GenerationStatus `json:"status,omitempty"`
	WaitTime   *int64            `json:"waitTime,omitempty"`
	TraceID    *string           `json:"traceId,omitempty"`
	TaskID     *string           `json:"taskId,omitempty"`
	CreatedAt  *int64            `json:"createdAt,omitempty"`
	UpdatedAt  *int64            `json:"updatedAt,omitempty"`
	DeletedAt  *int64            `json:"deletedAt,omitempty"`
	EnablePBR  *bool             `json:"enable_pbr,omitempty"`
	MotionType *int              `json:"motionType,omitempty"`
	Results    []ResultDetails   `json:"result,omitempty"`
}

// ResultDetails is one generated variant inside a CreationDetails snapshot.
// Missing fields decode to their zero value, which Merge writes through.
type ResultDetails struct {
	TaskID           string               `json:"taskId"`
	AssetID          string               `json:"assetId"`
	Status           GenerationStatus     `json:"status"`
	CreatedAt        int64                `json:"createdAt"`
	UpdatedAt        int64                `json:"updatedAt"`
	Progress         float64              `json:"progress"`
	ProgressGeometry float64              `json:"progressGeometry"`
	ProgressTexture  float64              `json:"progressTexture"`
	URLResult        *URLResultDetails    `json:"urlResult,omitempty"`
	Intermediate     *IntermediateDetails `json:"intermediate_outputs,omitempty"`
}

type URLResultDetails struct {
	GLB         string `json:"glb"`
	GIF         string `json:"gif"`
	OBJ         string `json:"obj"`
	MTL         string `json:"mtl"`
	ImageURL    string `json:"image_url"`
	GeometryGIF string `json:"geometryGif"`
	GeometryGLB string `json:"geometryGlb"`
	TextureGIF  string `json:"textureGif"`
	TextureOBJ  string `json:"textureObj"`
	TextureGLB  string `json:"textureGlb"`
	ObjURL      string `json:"obj_url"`
	FBX         string `json:"fbx"`
}

// Empty mirrors the service sending an empty object for results that have no files yet.
func (u *URLResultDetails) Empty() bool {
	return u == nil || *u == URLResultDetails{}
}

type IntermediateDetails struct {
	Geometry *IntermediateGeometry `json:"geometry,omitempty"`
}

type IntermediateGeometry struct {
	GifURL   string `json:"gif_url"`
	GlbURL   string `json:"glb_url"`
	ImageURL string `json:"image_url"`
	Created  int64  `json:"created"`
}
