package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todotrack/internal/cache"
	"todotrack/internal/service"
	"todotrack/internal/testutil"
)

var fixedNow = time.Date(2024, 7, 25, 23, 30, 0, 0, time.FixedZone("X", -5*3600))

func newTracker(remote service.Service, c cache.Cache) *Tracker {
	return New(Options{
		Remote: remote,
		Cache:  c,
		Now:    func() time.Time { return fixedNow },
		NewID:  func() string { return "abc" },
	})
}

func sampleTasks() []service.Task {
	return []service.Task{
		{ID: "1", Description: "Write tests", Status: service.StatusPending, Skills: service.Skills{"Go"}},
		{ID: "2", Description: "Ship", Status: service.StatusCompleted, Skills: service.Skills{"Release"}},
	}
}

func ids(tasks []service.Task) string {
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = t.ID
	}
	return strings.Join(parts, ",")
}

func TestLoad_NoBackendUsesFixtures(t *testing.T) {
	c := cache.NewMemoryCache()
	tr := newTracker(nil, c)

	res := tr.Load(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Source != SourceFixtures {
		t.Errorf("expected fixtures, got %s", res.Source)
	}
	if tr.Len() != 5 {
		t.Errorf("expected 5 fixture tasks, got %d", tr.Len())
	}
	if !tr.Degraded() {
		t.Error("tracker without backend should be degraded")
	}
	if c.Raw() == nil {
		t.Error("degraded load should write the cache")
	}
}

func TestLoad_NoBackendPrefersCache(t *testing.T) {
	c := cache.NewMemoryCache()
	if err := c.Save(context.Background(), sampleTasks()); err != nil {
		t.Fatal(err)
	}
	tr := newTracker(nil, c)

	res := tr.Load(context.Background())
	if res.Source != SourceCache {
		t.Errorf("expected cache, got %s", res.Source)
	}
	if ids(tr.Tasks()) != "1,2" {
		t.Errorf("unexpected tasks %s", ids(tr.Tasks()))
	}
}

func TestLoad_CorruptCacheIsDiscarded(t *testing.T) {
	c := cache.NewMemoryCache()
	c.SetRaw([]byte("{not json"))
	tr := newTracker(nil, c)

	res := tr.Load(context.Background())
	if res.Source != SourceFixtures {
		t.Errorf("expected fixtures after corrupt cache, got %s", res.Source)
	}
	if tr.Len() != len(Fixtures()) {
		t.Errorf("expected store repopulated with fixtures, got %d tasks", tr.Len())
	}

	// The slot was cleared and rewritten with a valid snapshot.
	tasks, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("cache should be readable again: %v", err)
	}
	if len(tasks) != len(Fixtures()) {
		t.Errorf("expected %d cached tasks, got %d", len(Fixtures()), len(tasks))
	}
}

func TestLoad_MockDelayHonorsContext(t *testing.T) {
	tr := New(Options{MockDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := tr.Load(ctx)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.Err)
	}
	if tr.Loaded() {
		t.Error("abandoned load must not be applied")
	}
}

func TestLoad_RemoteSuccess(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	c := cache.NewMemoryCache()
	tr := newTracker(fs, c)

	res := tr.Load(context.Background())
	if res.Err != nil || res.Source != SourceRemote {
		t.Fatalf("expected remote load, got %+v", res)
	}
	if tr.Degraded() {
		t.Error("working remote should not be degraded")
	}
	if c.Raw() != nil {
		t.Error("cache must not be written while the remote works")
	}
}

func TestLoad_RemoteFailureFallsBack(t *testing.T) {
	fs := testutil.NewFakeService()
	fs.FetchErr = &service.SyncError{Kind: service.KindApplication, Message: "Sheet not found"}
	c := cache.NewMemoryCache()
	tr := newTracker(fs, c)

	res := tr.Load(context.Background())
	if res.Err == nil {
		t.Fatal("expected load error")
	}
	if res.Message() != "Sheet not found" {
		t.Errorf("unexpected message %q", res.Message())
	}
	if res.Source != SourceFixtures || tr.Len() != 5 {
		t.Errorf("expected fixture fallback, got %s with %d tasks", res.Source, tr.Len())
	}
	if !tr.Degraded() {
		t.Error("failed load should be degraded")
	}
	if c.Raw() == nil {
		t.Error("degraded mode should write the cache")
	}
}

func TestToggle_Confirmed(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	tr := newTracker(fs, nil)
	tr.Load(context.Background())

	res, err := tr.Toggle(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Confirmed {
		t.Errorf("expected confirmed, got %s", res.Outcome)
	}
	task, _ := tr.Task("1")
	if task.Status != service.StatusCompleted {
		t.Errorf("expected Completed, got %s", task.Status)
	}
	if fs.Tasks()[0].Status != service.StatusCompleted {
		t.Error("remote was not updated")
	}
}

func TestToggle_TwiceRestoresContent(t *testing.T) {
	tr := newTracker(nil, nil)
	tr.Load(context.Background())
	before := tr.Tasks()

	for i := 0; i < 2; i++ {
		res, err := tr.Toggle(context.Background(), "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != Local {
			t.Errorf("expected local outcome, got %s", res.Outcome)
		}
	}

	after := tr.Tasks()
	if after[2].Status != before[2].Status {
		t.Errorf("expected %s after two toggles, got %s", before[2].Status, after[2].Status)
	}
}

func TestToggle_InProgressBecomesCompleted(t *testing.T) {
	tr := newTracker(nil, nil)
	tr.Load(context.Background())

	if _, err := tr.Toggle(context.Background(), "2"); err != nil {
		t.Fatal(err)
	}
	task, _ := tr.Task("2")
	if task.Status != service.StatusCompleted {
		t.Errorf("expected Completed, got %s", task.Status)
	}
}

func TestToggle_FailureReverts(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	fs.UpdateErr = &service.SyncError{Kind: service.KindTransport, Err: errors.New("connection refused")}
	tr := newTracker(fs, nil)
	tr.Load(context.Background())

	res, err := tr.Toggle(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Reverted {
		t.Fatalf("expected reverted, got %s", res.Outcome)
	}
	task, _ := tr.Task("1")
	if task.Status != service.StatusPending {
		t.Errorf("expected status restored to Pending, got %s", task.Status)
	}
	want := "Failed to sync update with server. Please check your connection."
	if res.Message() != want {
		t.Errorf("expected %q, got %q", want, res.Message())
	}
}

func TestToggle_UnknownTask(t *testing.T) {
	tr := newTracker(nil, nil)
	tr.Load(context.Background())

	_, err := tr.Toggle(context.Background(), "nope")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestAdd_ConfirmedSwapsIDInPlace(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	tr := newTracker(fs, nil)
	tr.Load(context.Background())

	res, err := tr.Add(context.Background(), Draft{
		Description: "  Write docs  ",
		DueDate:     "2024-08-01",
		Skills:      "Writing, , Go ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Confirmed || res.TaskID != "101" {
		t.Fatalf("expected confirmed with id 101, got %+v", res)
	}

	first, _ := tr.TaskAt(0)
	if first.ID != "101" {
		t.Errorf("expected server id at front, got %q", first.ID)
	}
	if first.Description != "Write docs" {
		t.Errorf("description not trimmed: %q", first.Description)
	}
	if strings.Join(first.Skills, "|") != "Writing|Go" {
		t.Errorf("unexpected skills %q", first.Skills)
	}
	if first.AssignedDate != "2024-07-26" {
		t.Errorf("expected UTC assigned date 2024-07-26, got %q", first.AssignedDate)
	}
	if first.Status != service.StatusPending {
		t.Errorf("expected Pending, got %s", first.Status)
	}
	if ids(tr.Tasks()) != "101,1,2" {
		t.Errorf("unexpected order %s", ids(tr.Tasks()))
	}
}

func TestAdd_FailureRollsBack(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	fs.AddErr = &service.SyncError{Kind: service.KindApplication}
	tr := newTracker(fs, nil)
	tr.Load(context.Background())

	res, err := tr.Add(context.Background(), Draft{Description: "Doomed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Reverted {
		t.Fatalf("expected reverted, got %s", res.Outcome)
	}
	if ids(tr.Tasks()) != "1,2" {
		t.Errorf("expected store rolled back, got %s", ids(tr.Tasks()))
	}
	if res.Message() != "Error adding task: Server error or no ID returned" {
		t.Errorf("unexpected message %q", res.Message())
	}
}

func TestAdd_LocalKeepsTemporaryID(t *testing.T) {
	tr := newTracker(nil, nil)
	tr.Load(context.Background())

	res, err := tr.Add(context.Background(), Draft{Description: "Offline"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Local || res.TaskID != "tmp-abc" {
		t.Errorf("expected local tmp-abc, got %+v", res)
	}
	first, _ := tr.TaskAt(0)
	if first.ID != "tmp-abc" || first.DueDate != "" {
		t.Errorf("unexpected first task %+v", first)
	}
}

func TestAdd_Validation(t *testing.T) {
	tr := newTracker(nil, nil)
	tr.Load(context.Background())

	if _, err := tr.Add(context.Background(), Draft{Description: "   "}); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
	if _, err := tr.Add(context.Background(), Draft{Description: "x", DueDate: "tomorrow"}); !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("expected ErrInvalidDueDate, got %v", err)
	}
	if tr.Len() != 5 {
		t.Errorf("invalid drafts must not touch the store, got %d tasks", tr.Len())
	}
}

func TestDelete_ConfirmedAndReverted(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	tr := newTracker(fs, nil)
	tr.Load(context.Background())

	res, err := tr.Delete(context.Background(), "1")
	if err != nil || res.Outcome != Confirmed {
		t.Fatalf("expected confirmed delete, got %+v, %v", res, err)
	}
	if ids(tr.Tasks()) != "2" {
		t.Errorf("unexpected tasks %s", ids(tr.Tasks()))
	}

	fs.DeleteErr = &service.SyncError{Kind: service.KindProtocol}
	res, err = tr.Delete(context.Background(), "2")
	if err != nil || res.Outcome != Reverted {
		t.Fatalf("expected reverted delete, got %+v, %v", res, err)
	}
	if ids(tr.Tasks()) != "2" {
		t.Errorf("expected task restored, got %s", ids(tr.Tasks()))
	}
	if res.Message() != "Error deleting task: Received non-JSON response from server." {
		t.Errorf("unexpected message %q", res.Message())
	}
}

func TestSettle_LateFailureRestoresBeginSnapshot(t *testing.T) {
	fs := testutil.NewFakeService(sampleTasks()...)
	tr := newTracker(fs, nil)
	tr.Load(context.Background())
	ctx := context.Background()

	toggle, err := tr.BeginToggle(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	del, err := tr.BeginDelete(ctx, "2")
	if err != nil {
		t.Fatal(err)
	}

	del.Commit(ctx)
	if res := tr.Settle(ctx, del); res.Outcome != Confirmed {
		t.Fatalf("expected delete confirmed, got %s", res.Outcome)
	}

	fs.UpdateErr = &service.SyncError{Kind: service.KindApplication, Message: "locked"}
	toggle.Commit(ctx)
	res := tr.Settle(ctx, toggle)
	if res.Outcome != Reverted {
		t.Fatalf("expected toggle reverted, got %s", res.Outcome)
	}
	if res.Message() != "Error updating task: locked" {
		t.Errorf("unexpected message %q", res.Message())
	}

	// Last writer wins: the toggle's snapshot predates the delete.
	if ids(tr.Tasks()) != "1,2" {
		t.Errorf("expected snapshot from before the toggle, got %s", ids(tr.Tasks()))
	}
}

func TestDegradedMutationsWriteCache(t *testing.T) {
	c := cache.NewMemoryCache()
	tr := newTracker(nil, c)
	tr.Load(context.Background())

	if _, err := tr.Delete(context.Background(), "5"); err != nil {
		t.Fatal(err)
	}
	tasks, err := c.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 4 {
		t.Errorf("expected 4 cached tasks, got %d", len(tasks))
	}
}

func TestSendReminder(t *testing.T) {
	tr := newTracker(nil, nil)
	msg, err := tr.SendReminder(context.Background(), service.ReminderMorning)
	if err != nil {
		t.Fatal(err)
	}
	if msg != `Mock morning reminder email "sent" successfully!` {
		t.Errorf("unexpected mock message %q", msg)
	}

	fs := testutil.NewFakeService()
	tr = newTracker(fs, nil)
	msg, err = tr.SendReminder(context.Background(), service.ReminderEvening)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "evening reminder email sent successfully!" {
		t.Errorf("unexpected default message %q", msg)
	}

	fs.ReminderErr = &service.SyncError{Kind: service.KindProtocol}
	_, err = tr.SendReminder(context.Background(), service.ReminderEvening)
	want := "Error sending evening reminder: Received non-JSON response from server during reminder."
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

type closeCounter struct {
	*cache.MemoryCache
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestClose(t *testing.T) {
	if err := newTracker(nil, nil).Close(); err != nil {
		t.Errorf("closing without a cache: %v", err)
	}

	c := &closeCounter{MemoryCache: cache.NewMemoryCache()}
	if err := newTracker(nil, c).Close(); err != nil {
		t.Fatal(err)
	}
	if c.closed != 1 {
		t.Errorf("expected cache closed once, got %d", c.closed)
	}
}
