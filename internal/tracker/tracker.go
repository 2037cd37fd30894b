// Package tracker coordinates the task store, the remote backend and the
// degraded-mode cache.
//
// A Tracker owns its store and must only be driven from one goroutine.
// Remote I/O can still leave that goroutine: Fetch and Pending.Commit do not
// touch the store, and their results are folded back in with ApplyLoad and
// Settle.
package tracker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"todotrack/internal/cache"
	"todotrack/internal/service"
	"todotrack/internal/store"
)

// DateLayout is the YYYY-MM-DD layout used for due and assigned dates.
const DateLayout = "2006-01-02"

// TempIDPrefix marks ids that have not been confirmed by a remote.
const TempIDPrefix = "tmp-"

// Options configures a Tracker. Every field is optional.
type Options struct {
	// Remote is the sync backend. Nil means no backend is configured and
	// the tracker runs in mock mode.
	Remote service.Service

	// Cache receives the task list while in degraded mode.
	Cache cache.Cache

	Logger log.Logger

	// MockDelay is the simulated latency of mock-mode loads. Reminders in
	// mock mode wait twice as long.
	MockDelay time.Duration

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Tracker is the optimistic update coordinator.
type Tracker struct {
	store     *store.Store
	remote    service.Service
	cache     cache.Cache
	log       *log.Helper
	mockDelay time.Duration
	now       func() time.Time
	newID     func() string

	loaded  bool
	loadErr error
	source  Source
}

// New creates a tracker with an empty store.
func New(opts Options) *Tracker {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewStdLogger(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Tracker{
		store:     store.New(),
		remote:    opts.Remote,
		cache:     opts.Cache,
		log:       log.NewHelper(log.With(logger, "module", "tracker")),
		mockDelay: opts.MockDelay,
		now:       now,
		newID:     newID,
	}
}

// Source says where the loaded task list came from.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceCache
	SourceFixtures
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	case SourceFixtures:
		return "fixtures"
	}
	return "none"
}

// LoadResult is the outcome of fetching the task list.
type LoadResult struct {
	Tasks  []service.Task
	Source Source

	// Err is the remote failure that forced a fallback, or the context
	// error if the load was abandoned.
	Err error
}

// Message returns the user-facing description of a failed load.
func (r LoadResult) Message() string {
	if r.Err == nil {
		return ""
	}
	if msg := service.ServerMessage(r.Err); msg != "" {
		return msg
	}
	if service.KindOf(r.Err) == service.KindProtocol {
		return "Invalid data format from API."
	}
	return r.Err.Error()
}

// Close releases the cache, if any.
func (t *Tracker) Close() error {
	if t.cache == nil {
		return nil
	}
	return t.cache.Close()
}

// RemoteConfigured reports whether mutations are sent to a backend.
func (t *Tracker) RemoteConfigured() bool {
	return t.remote != nil
}

// Degraded reports whether the tracker is working from local data: either
// there is no backend or the last load from it failed.
func (t *Tracker) Degraded() bool {
	return t.remote == nil || t.loadErr != nil
}

// Loaded reports whether a load has been applied.
func (t *Tracker) Loaded() bool {
	return t.loaded
}

// LoadErr returns the failure of the most recent load, if any.
func (t *Tracker) LoadErr() error {
	return t.loadErr
}

// Source returns where the current task list came from.
func (t *Tracker) Source() Source {
	return t.source
}

// Tasks returns a copy of the current task list.
func (t *Tracker) Tasks() []service.Task {
	return t.store.All()
}

// Task returns a copy of the task with the given id.
func (t *Tracker) Task(id string) (service.Task, bool) {
	return t.store.Get(id)
}

// TaskAt returns a copy of the task at a 0-based position.
func (t *Tracker) TaskAt(pos int) (service.Task, bool) {
	return t.store.At(pos)
}

// Len returns the number of tasks.
func (t *Tracker) Len() int {
	return t.store.Len()
}

// Load fetches the task list and applies it.
func (t *Tracker) Load(ctx context.Context) LoadResult {
	res := t.Fetch(ctx)
	t.ApplyLoad(ctx, res)
	return res
}

// Fetch retrieves the task list without touching the store.
//
// Without a backend it waits the mock delay and returns the cached snapshot,
// or the fixtures if there is none. When the backend fails it falls back the
// same way and reports the failure in Err.
func (t *Tracker) Fetch(ctx context.Context) LoadResult {
	if t.remote == nil {
		t.log.Info("no backend configured, using local data")
		if err := sleep(ctx, t.mockDelay); err != nil {
			return LoadResult{Err: err}
		}
		tasks, src := t.fallback(ctx)
		return LoadResult{Tasks: tasks, Source: src}
	}

	tasks, err := t.remote.FetchTasks(ctx)
	if err == nil {
		t.log.Debugf("fetched %d tasks", len(tasks))
		return LoadResult{Tasks: tasks, Source: SourceRemote}
	}
	if errors.Is(err, context.Canceled) {
		return LoadResult{Err: err}
	}

	t.log.Warnf("fetching tasks: %v", err)
	tasks, src := t.fallback(ctx)
	return LoadResult{Tasks: tasks, Source: src, Err: err}
}

// ApplyLoad replaces the store with a fetched task list. A result with no
// source (an abandoned load) leaves the store alone.
func (t *Tracker) ApplyLoad(ctx context.Context, res LoadResult) {
	if res.Source == SourceNone {
		return
	}
	t.store.Replace(res.Tasks)
	t.loaded = true
	t.loadErr = res.Err
	t.source = res.Source
	t.persist(ctx)
}

func (t *Tracker) fallback(ctx context.Context) ([]service.Task, Source) {
	if t.cache != nil {
		tasks, err := t.cache.Load(ctx)
		switch {
		case errors.Is(err, cache.ErrCorrupted):
			t.log.Warn("discarded corrupted cache")
		case err != nil:
			t.log.Warnf("reading cache: %v", err)
		case tasks != nil:
			return tasks, SourceCache
		}
	}
	return Fixtures(), SourceFixtures
}

// persist writes the store to the cache while in degraded mode.
func (t *Tracker) persist(ctx context.Context) {
	if t.cache == nil || !t.loaded || !t.Degraded() {
		return
	}
	if err := t.cache.Save(ctx, t.store.All()); err != nil {
		t.log.Warnf("saving cache: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
