package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the HTTP server stops before shutting down
// OTel providers so in-flight async emits can finish. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not blocked.
// A nil emitter or an event without a Type is ignored. The goroutine uses context.Background()
// so request cancellation does not abort an in-flight emit.
func EmitAsync(emitter EventEmitter, event Event) {
	if emitter == nil || event.Type == "" {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Warn().Err(err).Str("event_type", event.Type).Msg("telemetry: async emit failed")
		}
	}()
}
