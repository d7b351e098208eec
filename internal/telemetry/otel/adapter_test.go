package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"clearn/backend/internal/telemetry"
)

type recordCapture struct {
	rec otellog.Record
	n   int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.n++
}

func attrs(rec otellog.Record) map[string]string {
	out := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		out[kv.Key] = kv.Value.AsString()
		return true
	})
	return out
}

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), telemetry.Event{Type: telemetry.EventOTPRequested}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestNewEventEmitter_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	em := NewEventEmitter(provider)
	if err := em.Emit(context.Background(), telemetry.Event{Type: telemetry.EventOTPVerified}); err != nil {
		t.Errorf("Emit: %v", err)
	}
}

func TestEmit_AttributeMapping(t *testing.T) {
	cap := &recordCapture{}
	em := newEventEmitterWithLogger(cap)
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	err := em.Emit(context.Background(), telemetry.Event{
		Type:       telemetry.EventDeliveryError,
		Email:      "ada@example.com",
		Source:     "signup",
		Attributes: map[string]string{"reason": "not_configured", "dev_fallback": "true"},
		CreatedAt:  at,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if cap.n != 1 {
		t.Fatalf("emitted %d records, want 1", cap.n)
	}
	if !cap.rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v, want %v", cap.rec.Timestamp(), at)
	}
	if cap.rec.Body().AsString() != telemetry.EventDeliveryError {
		t.Errorf("body = %q", cap.rec.Body().AsString())
	}
	want := map[string]string{
		"event_type":   telemetry.EventDeliveryError,
		"source":       "signup",
		"user_email":   "ada@example.com",
		"reason":       "not_configured",
		"dev_fallback": "true",
	}
	got := attrs(cap.rec)
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attr %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestEmit_ZeroTimestamp_SetsCurrentTime(t *testing.T) {
	cap := &recordCapture{}
	em := newEventEmitterWithLogger(cap)
	before := time.Now().UTC()

	if err := em.Emit(context.Background(), telemetry.Event{Type: telemetry.EventLoginSuccess}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if ts := cap.rec.Timestamp(); ts.Before(before) || ts.After(time.Now().UTC()) {
		t.Errorf("timestamp = %v, want now", ts)
	}
}

func TestEmit_OmitsEmptyOptionalFields(t *testing.T) {
	cap := &recordCapture{}
	em := newEventEmitterWithLogger(cap)

	if err := em.Emit(context.Background(), telemetry.Event{Type: telemetry.EventLoginFailure}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	got := attrs(cap.rec)
	if _, ok := got["user_email"]; ok {
		t.Error("user_email should be omitted when empty")
	}
	if _, ok := got["source"]; ok {
		t.Error("source should be omitted when empty")
	}
}
