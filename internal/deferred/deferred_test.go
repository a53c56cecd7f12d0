// Where: internal/deferred/deferred_test.go
// What: Tests for memoized deferred values.
// Why: Token creation relies on at-most-once execution across concurrent awaiters.
package deferred

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetRunsOperationOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	value := New(func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "token", nil
	})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := value.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			results[i] = got
		}(i)
	}
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
	for _, got := range results {
		if got != "token" {
			t.Fatalf("unexpected result: %q", got)
		}
	}
}

func TestFailureIsShared(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	value := New(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, boom
	})

	for i := 0; i < 3; i++ {
		if _, err := value.Get(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
}

func TestOperationIsLazy(t *testing.T) {
	var calls atomic.Int32
	value := New(func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	})
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 || value.Done() {
		t.Fatalf("operation must not start before access")
	}
	if _, err := value.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !value.Done() {
		t.Fatalf("expected value done after get")
	}
}

func TestGetHonorsWaiterCancellation(t *testing.T) {
	release := make(chan struct{})
	value := New(func(context.Context) (int, error) {
		<-release
		return 7, nil
	})
	value.Start(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := value.Get(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}

	close(release)
	got, err := value.Get(context.Background())
	if err != nil || got != 7 {
		t.Fatalf("expected shared result after cancel, got %d %v", got, err)
	}
}

func TestResolvedAndFailed(t *testing.T) {
	got, err := Resolved("ready").Get(context.Background())
	if err != nil || got != "ready" {
		t.Fatalf("unexpected resolved: %q %v", got, err)
	}
	boom := errors.New("boom")
	if _, err := Failed[string](boom).Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("unexpected failed: %v", err)
	}
}

func TestThenDerivesOnceAndPropagatesErrors(t *testing.T) {
	var calls atomic.Int32
	src := New(func(context.Context) (string, error) {
		calls.Add(1)
		return "abc", nil
	})
	derived := Then(src, func(v string) (int, error) { return len(v), nil })
	other := Then(src, func(v string) (string, error) { return v + "!", nil })

	n, err := derived.Get(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("unexpected derived: %d %v", n, err)
	}
	s, err := other.Get(context.Background())
	if err != nil || s != "abc!" {
		t.Fatalf("unexpected other: %q %v", s, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("source must run once, got %d", calls.Load())
	}

	boom := errors.New("boom")
	failing := Then(Failed[string](boom), func(string) (int, error) {
		t.Fatalf("fn must not run on failure")
		return 0, nil
	})
	if _, err := failing.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
