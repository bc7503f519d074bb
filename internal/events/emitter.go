package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var Emit = func(ctx context.Context, name string, evt GenerationEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt GenerationEvent) {
		evt = scope(ctx, evt)
		runtime.EventsEmit(ctx, name, evt)

		// redraws fire every tick and would flood the log
		if evt.Type != EventInfo {
			logRuntimeEvent(ctx, name, evt)
		}
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt GenerationEvent)) {
	if f == nil {
		Emit = func(context.Context, string, GenerationEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt GenerationEvent) {
		f(ctx, name, scope(ctx, evt))
	}
}

func scope(ctx context.Context, evt GenerationEvent) GenerationEvent {
	if evt.CreationID == "" {
		evt.CreationID = CreationFromContext(ctx)
	}
	return evt
}
