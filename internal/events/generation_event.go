package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	GenerationRedraw = "events:generation:redraw"
	GenerationError  = "events:generation:error"
	GenerationDone   = "events:generation:done"
)

// GenerationEvent is the payload sent to the frontend about generation jobs.
type GenerationEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	CreationID string            `json:"creationId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const creationContextKey contextKey = "h3dstudio/events/creation"

// WithCreation returns a derived context annotated with the given creation id
// so emitters can scope payloads to one job.
func WithCreation(ctx context.Context, creationID string) context.Context {
	if strings.TrimSpace(creationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, creationContextKey, creationID)
}

// CreationFromContext extracts the creation id associated with ctx.
func CreationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(creationContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateGenerationEvent(eventType EventType, message string) GenerationEvent {
	return GenerationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewInfo(message string) GenerationEvent {
	return CreateGenerationEvent(EventInfo, message)
}

func NewWarn(message string) GenerationEvent {
	return CreateGenerationEvent(EventWarn, message)
}

func NewError(message string) GenerationEvent {
	return CreateGenerationEvent(EventError, message)
}

func NewSuccess(message string) GenerationEvent {
	return CreateGenerationEvent(EventSuccess, message)
}

// WithMeta returns a copy of evt carrying key=value in its metadata.
func (e GenerationEvent) WithMeta(key, value string) GenerationEvent {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}
