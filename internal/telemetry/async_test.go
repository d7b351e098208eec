package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu      sync.Mutex
	events  []Event
	emitErr error
	done    chan struct{}
}

func newRecordingEmitter(buffer int) *recordingEmitter {
	return &recordingEmitter{done: make(chan struct{}, buffer)}
}

func (m *recordingEmitter) Emit(ctx context.Context, event Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.emitErr
}

func (m *recordingEmitter) wait(t *testing.T, n int) []Event {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for emit %d of %d", i+1, n)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	EmitAsync(nil, Event{Type: EventOTPRequested})
}

func TestEmitAsync_IgnoresUntypedEvent(t *testing.T) {
	em := newRecordingEmitter(1)
	EmitAsync(em, Event{Email: "ada@example.com"})

	select {
	case <-em.done:
		t.Fatal("event without type should not be emitted")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmitAsync_EmitsAndStampsTime(t *testing.T) {
	em := newRecordingEmitter(1)
	before := time.Now().UTC()

	EmitAsync(em, Event{Type: EventOTPVerified, Email: "ada@example.com", Source: "signup"})

	events := em.wait(t, 1)
	if events[0].Type != EventOTPVerified || events[0].Email != "ada@example.com" {
		t.Errorf("event = %+v", events[0])
	}
	if events[0].CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want >= %v", events[0].CreatedAt, before)
	}
}

func TestEmitAsync_KeepsExplicitTime(t *testing.T) {
	em := newRecordingEmitter(1)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	EmitAsync(em, Event{Type: EventLoginSuccess, CreatedAt: at})

	if got := em.wait(t, 1)[0].CreatedAt; !got.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got, at)
	}
}

func TestEmitAsync_ErrorDoesNotPanic(t *testing.T) {
	em := newRecordingEmitter(1)
	em.emitErr = errors.New("collector down")

	EmitAsync(em, Event{Type: EventLoginFailure})
	em.wait(t, 1)
}

func TestEmitAsync_Concurrent(t *testing.T) {
	em := newRecordingEmitter(10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(em, Event{Type: EventOTPRequested})
		}()
	}
	wg.Wait()

	if events := em.wait(t, 10); len(events) != 10 {
		t.Errorf("expected 10 events, got %d", len(events))
	}
}
