package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.hooks == nil {
		t.Error("hooks should be initialized")
	}
	if h.done == nil {
		t.Error("done channel should be initialized")
	}
	if h.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
}

func TestHandler_Done(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

// recordingHooks registers three hooks that append their number on run.
func recordingHooks(h *Handler) func() []int {
	var mu sync.Mutex
	order := make([]int, 0)
	for i := 1; i <= 3; i++ {
		n := i
		h.OnShutdown("hook", func(context.Context) error {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil
		})
	}
	return func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), order...)
	}
}

func waitResult(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
		return nil
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	order := recordingHooks(h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	// Give Wait time to set up signal handler
	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() returned error: %v", err)
	}

	got := order()
	if len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Errorf("hooks called in wrong order: %v, want [3 2 1]", got)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Trigger(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	order := recordingHooks(h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	h.Trigger("shell exit")
	h.Trigger("second call is ignored")

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() returned error: %v", err)
	}
	if got := order(); len(got) != 3 {
		t.Errorf("expected 3 hooks called, got %v", got)
	}
}

func TestHandler_Wait_HookError(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	expectedErr := errors.New("hook error")
	var ranAfterFailure bool

	h.OnShutdown("first", func(context.Context) error {
		ranAfterFailure = true
		return nil
	})
	h.OnShutdown("failing", func(context.Context) error {
		return expectedErr
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	err := waitResult(t, errCh)
	if !errors.Is(err, expectedErr) {
		t.Errorf("Wait() returned %v, want it to wrap %v", err, expectedErr)
	}
	if !ranAfterFailure {
		t.Error("hooks after a failing hook should still run")
	}
}

func TestHandler_HooksShareTimeout(t *testing.T) {
	h := NewHandler(20*time.Millisecond, nil)

	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()
	h.Trigger("test")

	if err := waitResult(t, errCh); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want deadline exceeded", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("noop", func(context.Context) error {
				return nil
			})
		}()
	}

	wg.Wait()

	h.mu.Lock()
	if len(h.hooks) != numGoroutines {
		t.Errorf("expected %d hooks, got %d", numGoroutines, len(h.hooks))
	}
	h.mu.Unlock()
}
