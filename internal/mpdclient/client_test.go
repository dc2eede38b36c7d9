package mpdclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newWaitSession builds a session around injected watcher channels so
// WaitForChange can be exercised without a live daemon.
func newWaitSession(events <-chan string, errs <-chan error) *Session {
	return &Session{
		logger: zap.NewNop(),
		events: events,
		errs:   errs,
		done:   make(chan struct{}),
	}
}

func TestWaitForChange_ReturnsMatchingSubsystem(t *testing.T) {
	events := make(chan string, 1)
	events <- "player"
	s := newWaitSession(events, nil)

	got, err := s.WaitForChange(context.Background(), "player")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "player" {
		t.Errorf("expected player, got %q", got)
	}
}

func TestWaitForChange_FiltersOtherSubsystems(t *testing.T) {
	events := make(chan string, 3)
	events <- "mixer"
	events <- "playlist"
	events <- "player"
	s := newWaitSession(events, nil)

	got, err := s.WaitForChange(context.Background(), "player")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "player" {
		t.Errorf("expected player after filtering, got %q", got)
	}
}

func TestWaitForChange_EmptySubsystemMatchesAny(t *testing.T) {
	events := make(chan string, 1)
	events <- "mixer"
	s := newWaitSession(events, nil)

	got, err := s.WaitForChange(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "mixer" {
		t.Errorf("expected mixer, got %q", got)
	}
}

func TestWaitForChange_WatcherError(t *testing.T) {
	errs := make(chan error, 1)
	errs <- errors.New("connection reset")
	s := newWaitSession(nil, errs)

	_, err := s.WaitForChange(context.Background(), "player")
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if perr.Op != "idle" {
		t.Errorf("expected idle op, got %q", perr.Op)
	}
}

func TestWaitForChange_ClosedEventChannel(t *testing.T) {
	events := make(chan string)
	close(events)
	s := newWaitSession(events, nil)

	_, err := s.WaitForChange(context.Background(), "player")
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

// TestWaitForChange_Cancellation verifies that shutdown latency is bounded:
// a blocked wait returns promptly once the context is cancelled.
func TestWaitForChange_Cancellation(t *testing.T) {
	s := newWaitSession(nil, nil) // channels never deliver

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := s.WaitForChange(ctx, "player")
		result <- err
	}()

	cancel()
	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("WaitForChange did not unblock after cancellation")
	}
}

func TestErrorTypes(t *testing.T) {
	inner := fmt.Errorf("dial tcp: connection refused")
	cerr := &ConnectionError{Addr: "localhost:6600", Err: inner}
	if !errors.Is(cerr, inner) {
		t.Error("ConnectionError should unwrap to the inner error")
	}
	if cerr.Error() != "connect localhost:6600: dial tcp: connection refused" {
		t.Errorf("unexpected message: %q", cerr.Error())
	}

	perr := &ProtocolError{Op: "albumart", Err: inner}
	if !errors.Is(perr, inner) {
		t.Error("ProtocolError should unwrap to the inner error")
	}
	if perr.Error() != "mpd albumart: dial tcp: connection refused" {
		t.Errorf("unexpected message: %q", perr.Error())
	}
}

func TestDial_CancelledContext(t *testing.T) {
	d := NewDialer(zap.NewNop(), "tcp", "localhost:6600", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Dial(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
