package hooks

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestEmit_PriorityDescendingThenInsertionOrder(t *testing.T) {
	o := New(nil)
	var mu sync.Mutex
	var order []string

	record := func(name string) ActionFunc {
		return func(ctx context.Context, data map[string]any) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	o.On("test", record("normal-1"), WithPriority(PriorityNormal))
	o.On("test", record("low"), WithPriority(PriorityLow))
	o.On("test", record("critical"), WithPriority(PriorityCritical))
	o.On("test", record("normal-2"), WithPriority(PriorityNormal))

	o.Emit(context.Background(), "test", nil, Stop)

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: got %q, want %q (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestEmit_StopAbortsOnFirstError(t *testing.T) {
	o := New(nil)
	var calls []string
	boom := errors.New("boom")

	o.On("test", func(ctx context.Context, data map[string]any) error {
		calls = append(calls, "first")
		return boom
	}, WithPriority(PriorityHigh))
	o.On("test", func(ctx context.Context, data map[string]any) error {
		calls = append(calls, "second")
		return nil
	}, WithPriority(PriorityLow))

	errs := o.Emit(context.Background(), "test", nil, Stop)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if len(calls) != 1 {
		t.Errorf("expected dispatch to stop after the first handler, got %v", calls)
	}
}

func TestEmit_ContinueRunsAllAndCollectsErrors(t *testing.T) {
	o := New(nil)
	boom := errors.New("boom")
	var mu sync.Mutex
	count := 0

	o.On("test", func(ctx context.Context, data map[string]any) error {
		mu.Lock()
		count++
		mu.Unlock()
		return boom
	})
	o.On("test", func(ctx context.Context, data map[string]any) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	errs := o.Emit(context.Background(), "test", nil, Continue)
	if count != 2 {
		t.Errorf("expected both handlers to run, ran %d", count)
	}
	if len(errs) != 1 {
		t.Errorf("expected exactly one collected error, got %v", errs)
	}
}

func TestEmit_OnceHandlerRemovedAfterDispatch(t *testing.T) {
	o := New(nil)
	count := 0
	o.On("test", func(ctx context.Context, data map[string]any) error {
		count++
		return nil
	}, Once())

	o.Emit(context.Background(), "test", nil, Continue)
	o.Emit(context.Background(), "test", nil, Continue)

	if count != 1 {
		t.Errorf("expected once-handler to fire exactly once, fired %d times", count)
	}
}

func TestToken_UnsubscribeRemovesExactlyThatHandler(t *testing.T) {
	o := New(nil)
	var fired []string

	o.On("test", func(ctx context.Context, data map[string]any) error {
		fired = append(fired, "a")
		return nil
	})
	tokenB := o.On("test", func(ctx context.Context, data map[string]any) error {
		fired = append(fired, "b")
		return nil
	})
	o.On("test", func(ctx context.Context, data map[string]any) error {
		fired = append(fired, "c")
		return nil
	})

	tokenB.Unsubscribe()
	o.Emit(context.Background(), "test", nil, Stop)

	if len(fired) != 2 {
		t.Fatalf("expected 2 handlers to remain, got %v", fired)
	}
	for _, name := range fired {
		if name == "b" {
			t.Error("unsubscribed handler still fired")
		}
	}
}

func TestFilter_ThreadsDataSequentially(t *testing.T) {
	o := New(nil)
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		data["steps"] = append(data["steps"].([]string), "first")
		return data, nil
	}, WithPriority(PriorityHigh))
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		data["steps"] = append(data["steps"].([]string), "second")
		return data, nil
	}, WithPriority(PriorityLow))

	result, errs := o.Filter(context.Background(), "test", map[string]any{"steps": []string{}}, Stop)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	steps := result["steps"].([]string)
	if len(steps) != 2 || steps[0] != "first" || steps[1] != "second" {
		t.Errorf("expected steps in priority order, got %v", steps)
	}
}

func TestFilter_ContinueSkipsErroringHandlerPreservingData(t *testing.T) {
	o := New(nil)
	boom := errors.New("boom")
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return nil, boom
	}, WithPriority(PriorityHigh))
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		data["touched"] = true
		return data, nil
	}, WithPriority(PriorityLow))

	result, errs := o.Filter(context.Background(), "test", map[string]any{"original": true}, Continue)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if result["original"] != true || result["touched"] != true {
		t.Errorf("expected pre-chain data preserved through the erroring handler, got %v", result)
	}
}

func TestFilter_StopAbortsChainOnError(t *testing.T) {
	o := New(nil)
	boom := errors.New("boom")
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return nil, boom
	}, WithPriority(PriorityHigh))
	reached := false
	o.AddFilter("test", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		reached = true
		return data, nil
	}, WithPriority(PriorityLow))

	_, errs := o.Filter(context.Background(), "test", map[string]any{}, Stop)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if reached {
		t.Error("expected chain to abort before the second handler")
	}
}
