package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	name string
	evt  GenerationEvent
}

func captureEmits(t *testing.T) *[]captured {
	t.Helper()
	var got []captured
	SetCustomEmitter(func(_ context.Context, name string, evt GenerationEvent) {
		got = append(got, captured{name: name, evt: evt})
	})
	t.Cleanup(func() { SetCustomEmitter(nil) })
	return &got
}

func TestSetCustomEmitter_ScopesCreationFromContext(t *testing.T) {
	got := captureEmits(t)

	ctx := WithCreation(context.Background(), "c-1")
	Emit(ctx, GenerationDone, NewSuccess("done"))
	Emit(ctx, GenerationError, CreateGenerationEvent(EventError, "x").WithMeta("a", "b"))

	explicit := NewInfo("redraw")
	explicit.CreationID = "c-2"
	Emit(ctx, GenerationRedraw, explicit)

	require.Len(t, *got, 3)
	assert.Equal(t, GenerationDone, (*got)[0].name)
	assert.Equal(t, "c-1", (*got)[0].evt.CreationID)
	assert.Equal(t, map[string]string{"a": "b"}, (*got)[1].evt.Metadata)
	assert.Equal(t, "c-2", (*got)[2].evt.CreationID)
}

func TestSetCustomEmitter_NilDisables(t *testing.T) {
	got := captureEmits(t)
	SetCustomEmitter(nil)

	Emit(context.Background(), GenerationRedraw, NewInfo("redraw"))
	assert.Empty(t, *got)
}

func TestWithCreation_BlankIsIgnored(t *testing.T) {
	ctx := WithCreation(context.Background(), "  ")
	assert.Equal(t, "", CreationFromContext(ctx))
	assert.Equal(t, "", CreationFromContext(nil))
}

func TestCreateGenerationEvent(t *testing.T) {
	evt := NewWarn("slow")
	_, err := uuid.Parse(evt.ID)
	assert.NoError(t, err)
	assert.Equal(t, EventWarn, evt.Type)
	assert.False(t, evt.Timestamp.IsZero())

	base := NewError("x")
	withMeta := base.WithMeta("k", "v")
	assert.Nil(t, base.Metadata)
	assert.Equal(t, "v", withMeta.Metadata["k"])
}
