package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// ErrCreationMismatch is returned by Merge when a snapshot belongs to another creation.
var ErrCreationMismatch = errors.New("snapshot belongs to a different creation")

// GenerationJob is the local record of one submitted creation. Its identity
// is the remote creation id, which is written once and never changed.
type GenerationJob struct {
	ID              uint             `gorm:"primaryKey" json:"-"`
	CreationID      string           `gorm:"size:128;not null;uniqueIndex" json:"creationId"`
	UserID          string           `gorm:"size:128" json:"userId"`
	SceneType       string           `gorm:"size:64" json:"sceneType"`
	ModelType       string           `gorm:"size:64" json:"modelType"`
	Prompt          string           `gorm:"type:text" json:"prompt"`
	Title           string           `gorm:"type:text" json:"title"`
	Style           string           `gorm:"size:64" json:"style"`
	Count           int              `json:"count"`
	Status          GenerationStatus `gorm:"size:16;not null;index" json:"status"`
	WaitTime        int64            `json:"waitTime"`
	TraceID         string           `gorm:"size:64" json:"traceId"`
	TaskID          string           `gorm:"size:128" json:"taskId"`
	RemoteCreatedAt int64            `gorm:"index" json:"createdAt"`
	RemoteUpdatedAt int64            `json:"updatedAt"`
	RemoteDeletedAt int64            `json:"deletedAt"`
	EnablePBR       bool             `json:"enablePbr"`
	MotionType      int              `json:"motionType"`

	ShowInUI   bool `json:"showInUi"`
	ExpandInUI bool `json:"expandInUi"`

	// Snapshot keeps the last merged remote response for inspection.
	Snapshot datatypes.JSON `json:"-"`

	Results []GenerationResult `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"results"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewGenerationJob returns a fresh record for a just-submitted creation.
// New generations are shown and expanded in the generations list.
func NewGenerationJob(creationID string) *GenerationJob {
	return &GenerationJob{
		CreationID: creationID,
		SceneType:  DefaultSceneType,
		ModelType:  DefaultModelType,
		Status:     StatusWait,
		Count:      4,
		EnablePBR:  true,
		ShowInUI:   true,
		ExpandInUI: true,
	}
}

// ApplyRequest seeds the descriptive fields from the submitted request so the
// record is meaningful before the first status snapshot arrives.
func (j *GenerationJob) ApplyRequest(req GenerationRequest) {
	j.Prompt = req.Prompt
	j.Title = req.Title
	j.Style = req.Style
	j.Count = req.Count
	j.EnablePBR = req.EnablePBR
}

// Result finds the result with taskID. When create is set and none exists a
// new one is appended. Returns nil for an empty task id.
func (j *GenerationJob) Result(taskID string, create bool) *GenerationResult {
	if taskID == "" {
		return nil
	}
	for i := range j.Results {
		if j.Results[i].TaskID == taskID {
			return &j.Results[i]
		}
	}
	if !create {
		return nil
	}
	j.Results = append(j.Results, GenerationResult{
		JobID:  j.ID,
		TaskID: taskID,
		Status: StatusWait,
	})
	return &j.Results[len(j.Results)-1]
}

// RemoveResult drops the result with taskID, keeping the order of the rest.
func (j *GenerationJob) RemoveResult(taskID string) bool {
	for i := range j.Results {
		if j.Results[i].TaskID == taskID {
			j.Results = append(j.Results[:i], j.Results[i+1:]...)
			return true
		}
	}
	return false
}

// TaskIDs returns the task ids of the current result set in order.
func (j *GenerationJob) TaskIDs() []string {
	ids := make([]string, 0, len(j.Results))
	for _, r := range j.Results {
		ids = append(ids, r.TaskID)
	}
	return ids
}

// Progress is the mean progress over all results.
func (j *GenerationJob) Progress() float64 {
	if len(j.Results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range j.Results {
		sum += r.Progress
	}
	return sum / float64(len(j.Results))
}

// Merge reconciles a remote snapshot into the record.
//
// Job fields are only overwritten when present in d. Status only moves
// forward. Results are merged in order: the first entry reported as fail
// removes the matching local result and ends result processing for this
// snapshot. Every other entry is merged in place, so user flags survive.
func (j *GenerationJob) Merge(d *CreationDetails) error {
	if d == nil {
		return nil
	}
	if d.ID != nil && *d.ID != "" {
		switch {
		case j.CreationID == "":
			j.CreationID = *d.ID
		case j.CreationID != *d.ID:
			return ErrCreationMismatch
		}
	}

	mergeValue(&j.UserID, d.UserID)
	mergeValue(&j.SceneType, d.SceneType)
	mergeValue(&j.ModelType, d.ModelType)
	mergeValue(&j.Prompt, d.Prompt)
	mergeValue(&j.Title, d.Title)
	mergeValue(&j.Style, d.Style)
	mergeValue(&j.Count, d.Count)
	mergeValue(&j.WaitTime, d.WaitTime)
	mergeValue(&j.TraceID, d.TraceID)
	mergeValue(&j.TaskID, d.TaskID)
	mergeValue(&j.RemoteCreatedAt, d.CreatedAt)
	mergeValue(&j.RemoteUpdatedAt, d.UpdatedAt)
	mergeValue(&j.RemoteDeletedAt, d.DeletedAt)
	mergeValue(&j.EnablePBR, d.EnablePBR)
	mergeValue(&j.MotionType, d.MotionType)
	if d.Status != nil && j.Status.CanAdvanceTo(*d.Status) {
		j.Status = *d.Status
	}

	j.mergeResults(d.Results)

	if raw, err := json.Marshal(d); err == nil {
		j.Snapshot = datatypes.JSON(raw)
	}
	return nil
}

func (j *GenerationJob) mergeResults(results []ResultDetails) {
	for _, rd := range results {
		if rd.Status == StatusFail {
			j.RemoveResult(rd.TaskID)
			return
		}
		r := j.Result(rd.TaskID, true)
		if r == nil {
			continue
		}
		r.Merge(rd)
	}
}

func mergeValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
