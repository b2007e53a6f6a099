// Package hooks implements the Hook Orchestrator (component D): a typed
// event bus with two semantics — fire-and-forget "action" hooks dispatched
// in parallel, and sequential "filter" hooks that thread data through a
// pipeline — both honoring priority and stable insertion order.
//
// Import Path: github.com/shepherd-cms/corepress/internal/hooks
package hooks

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/shepherd-cms/corepress/internal/pkg/worker"
)

// Named priority levels (spec §4.4).
const (
	PriorityLow      = 10
	PriorityNormal   = 50
	PriorityHigh     = 100
	PriorityCritical = 1000
)

// ErrorStrategy controls how Emit handles handler errors.
type ErrorStrategy int

const (
	// Continue runs all handlers regardless of individual failures
	// (the default). Handlers dispatch concurrently with no ordering
	// guarantee among themselves.
	Continue ErrorStrategy = iota
	// Stop executes handlers sequentially in priority order; the first
	// error aborts the remaining handlers and is returned to the caller.
	Stop
)

// ActionFunc is a fire-and-forget action hook handler.
type ActionFunc func(ctx context.Context, data map[string]any) error

// FilterFunc is a sequential filter hook handler threading data through
// the pipeline.
type FilterFunc func(ctx context.Context, data map[string]any) (map[string]any, error)

// Token is returned by On and AddFilter. Unsubscribe removes exactly the
// entry the token was issued for, even if other handlers were registered
// or removed in the meantime.
type Token struct {
	unsubscribe func()
}

// Unsubscribe removes the handler this token was issued for. Safe to call
// more than once.
func (t Token) Unsubscribe() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}

type actionEntry struct {
	id       uint64
	priority int
	seq      uint64
	once     bool
	fn       ActionFunc
}

type filterEntry struct {
	id       uint64
	priority int
	seq      uint64
	once     bool
	fn       FilterFunc
}

// Option configures a handler registration.
type Option func(*handlerOptions)

type handlerOptions struct {
	priority int
	once     bool
}

// WithPriority sets the handler's dispatch priority. Defaults to
// PriorityNormal.
func WithPriority(p int) Option {
	return func(o *handlerOptions) { o.priority = p }
}

// Once marks the handler for removal after its first invocation.
func Once() Option {
	return func(o *handlerOptions) { o.once = true }
}

// Orchestrator owns the action and filter registries for every event
// name. Parallel action dispatch runs on pool; pool may be nil, in which
// case Emit falls back to running handlers on the caller's goroutine
// sequentially (used by tests that don't need real concurrency).
type Orchestrator struct {
	mu      sync.RWMutex
	actions map[string][]*actionEntry
	filters map[string][]*filterEntry
	nextID  uint64
	nextSeq uint64

	pool *worker.Pool
}

// New constructs an Orchestrator. pool backs Continue-strategy parallel
// action dispatch.
func New(pool *worker.Pool) *Orchestrator {
	return &Orchestrator{
		actions: make(map[string][]*actionEntry),
		filters: make(map[string][]*filterEntry),
		pool:    pool,
	}
}

// On registers an action hook for event and returns a Token that removes
// it.
func (o *Orchestrator) On(event string, fn ActionFunc, opts ...Option) Token {
	options := resolveOptions(opts)
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	o.nextSeq++
	entry := &actionEntry{
		id:       o.nextID,
		priority: options.priority,
		seq:      o.nextSeq,
		once:     options.once,
		fn:       fn,
	}
	o.actions[event] = append(o.actions[event], entry)

	return Token{unsubscribe: func() {
		o.removeAction(event, entry.id)
	}}
}

// AddFilter registers a filter hook for event and returns a Token that
// removes it.
func (o *Orchestrator) AddFilter(event string, fn FilterFunc, opts ...Option) Token {
	options := resolveOptions(opts)
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	o.nextSeq++
	entry := &filterEntry{
		id:       o.nextID,
		priority: options.priority,
		seq:      o.nextSeq,
		once:     options.once,
		fn:       fn,
	}
	o.filters[event] = append(o.filters[event], entry)

	return Token{unsubscribe: func() {
		o.removeFilter(event, entry.id)
	}}
}

// Off removes every action hook for event registered with fn, by
// reference equality.
// Best-effort: Go function values only compare reliably via their code
// pointer, so two distinct closures over the same function body are
// indistinguishable here. Prefer the Token returned by On when precise
// removal matters.
func (o *Orchestrator) Off(event string, fn ActionFunc) {
	target := reflect.ValueOf(fn).Pointer()
	o.mu.Lock()
	defer o.mu.Unlock()
	entries := o.actions[event]
	filtered := entries[:0:0]
	for _, e := range entries {
		if reflect.ValueOf(e.fn).Pointer() == target {
			continue
		}
		filtered = append(filtered, e)
	}
	o.actions[event] = filtered
}

// Clear drops every registered action and filter handler for every
// event.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = make(map[string][]*actionEntry)
	o.filters = make(map[string][]*filterEntry)
}

func resolveOptions(opts []Option) handlerOptions {
	options := handlerOptions{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func (o *Orchestrator) removeAction(event string, id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entries := o.actions[event]
	for i, e := range entries {
		if e.id == id {
			o.actions[event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) removeFilter(event string, id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entries := o.filters[event]
	for i, e := range entries {
		if e.id == id {
			o.filters[event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// snapshotActions returns event's action handlers sorted by priority
// descending, ties broken by ascending registration sequence.
func (o *Orchestrator) snapshotActions(event string) []*actionEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	src := o.actions[event]
	out := make([]*actionEntry, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (o *Orchestrator) snapshotFilters(event string) []*filterEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	src := o.filters[event]
	out := make([]*filterEntry, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority != out[j].priority {
			return out[i].priority > out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Emit dispatches event's action handlers. Under Stop, handlers run
// sequentially in priority order and the first error aborts the rest.
// Under Continue (default), handlers dispatch in parallel on the pool and
// all errors are collected. Once-handlers are removed only after every
// handler of this Emit has completed, never mid-dispatch.
func (o *Orchestrator) Emit(ctx context.Context, event string, data map[string]any, strategy ErrorStrategy) []error {
	snapshot := o.snapshotActions(event)
	if len(snapshot) == 0 {
		return nil
	}

	var errs []error

	if strategy == Stop {
		var onceIDs []uint64
		for _, e := range snapshot {
			if err := e.fn(ctx, data); err != nil {
				errs = append(errs, err)
				break
			}
			if e.once {
				onceIDs = append(onceIDs, e.id)
			}
		}
		for _, id := range onceIDs {
			o.removeAction(event, id)
		}
		return errs
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		onceIDs []uint64
	)
	for _, e := range snapshot {
		e := e
		run := func(ctx context.Context) {
			defer wg.Done()
			if err := e.fn(ctx, data); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			if e.once {
				mu.Lock()
				onceIDs = append(onceIDs, e.id)
				mu.Unlock()
			}
		}
		wg.Add(1)
		if o.pool != nil {
			if err := o.pool.Submit(ctx, run); err != nil {
				wg.Done()
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		} else {
			run(ctx)
		}
	}
	wg.Wait()

	for _, id := range onceIDs {
		o.removeAction(event, id)
	}
	return errs
}

// Filter runs event's filter handlers sequentially in priority order,
// threading each handler's return value into the next. Under Stop, the
// first error aborts the chain and is returned alongside the data as of
// the last successful handler. Under Continue, an erroring handler is
// skipped and the pre-handler data carries forward unchanged.
func (o *Orchestrator) Filter(ctx context.Context, event string, data map[string]any, strategy ErrorStrategy) (map[string]any, []error) {
	snapshot := o.snapshotFilters(event)
	var errs []error
	var onceIDs []uint64

	current := data
	for _, e := range snapshot {
		next, err := e.fn(ctx, current)
		if err != nil {
			errs = append(errs, err)
			if strategy == Stop {
				break
			}
			if e.once {
				onceIDs = append(onceIDs, e.id)
			}
			continue
		}
		current = next
		if e.once {
			onceIDs = append(onceIDs, e.id)
		}
	}

	for _, id := range onceIDs {
		o.removeFilter(event, id)
	}
	return current, errs
}
