package cache

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"todotrack/internal/service"
)

func sampleTasks() []service.Task {
	return []service.Task{
		{ID: "1", Description: "Write docs", Status: service.StatusCompleted, DueDate: "2024-07-25", Skills: service.Skills{"Writing"}},
		{ID: "2", Description: "Ship it", Status: service.StatusPending, Skills: service.Skills{}},
	}
}

// openAll opens every persistent driver in its own temp dir.
func openAll(t *testing.T) map[string]Cache {
	t.Helper()
	out := make(map[string]Cache)
	for _, driver := range []string{DriverFile, DriverNutsDB, DriverSQLite, DriverMemory} {
		c, err := Open(driver, t.TempDir())
		if err != nil {
			t.Fatalf("open %s: %v", driver, err)
		}
		t.Cleanup(func() { _ = c.Close() })
		out[driver] = c
	}
	return out
}

func TestCache_EmptyLoadIsNil(t *testing.T) {
	ctx := context.Background()
	for driver, c := range openAll(t) {
		tasks, err := c.Load(ctx)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", driver, err)
		}
		if tasks != nil {
			t.Errorf("%s: expected nil, got %v", driver, tasks)
		}
	}
}

func TestCache_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	for driver, c := range openAll(t) {
		if err := c.Save(ctx, sampleTasks()); err != nil {
			t.Fatalf("%s: save: %v", driver, err)
		}
		got, err := c.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load: %v", driver, err)
		}
		if !reflect.DeepEqual(got, sampleTasks()) {
			t.Errorf("%s: expected %+v, got %+v", driver, sampleTasks(), got)
		}

		// A second save replaces the slot.
		if err := c.Save(ctx, sampleTasks()[:1]); err != nil {
			t.Fatalf("%s: second save: %v", driver, err)
		}
		got, _ = c.Load(ctx)
		if len(got) != 1 {
			t.Errorf("%s: expected 1 task after overwrite, got %d", driver, len(got))
		}
	}
}

func TestCache_SaveEmptyListLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	for driver, c := range openAll(t) {
		if err := c.Save(ctx, nil); err != nil {
			t.Fatalf("%s: save: %v", driver, err)
		}
		got, err := c.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load: %v", driver, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("%s: expected empty non-nil list, got %#v", driver, got)
		}
	}
}

func TestCache_ClearRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	for driver, c := range openAll(t) {
		if err := c.Save(ctx, sampleTasks()); err != nil {
			t.Fatalf("%s: save: %v", driver, err)
		}
		if err := c.Clear(ctx); err != nil {
			t.Fatalf("%s: clear: %v", driver, err)
		}
		got, err := c.Load(ctx)
		if err != nil || got != nil {
			t.Errorf("%s: expected empty slot after clear, got %v (%v)", driver, got, err)
		}
		// Clearing twice is fine.
		if err := c.Clear(ctx); err != nil {
			t.Errorf("%s: second clear: %v", driver, err)
		}
	}
}

func TestMemoryCache_CorruptedSnapshotIsCleared(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	c.SetRaw([]byte("{not json"))

	tasks, err := c.Load(ctx)
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
	if tasks != nil {
		t.Errorf("expected no tasks, got %v", tasks)
	}
	if c.Raw() != nil {
		t.Error("corrupted slot was not cleared")
	}
}

func TestFileCache_CorruptedSnapshotIsCleared(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(t.TempDir() + "/" + Key + ".json")
	if err := os.WriteFile(c.Path(), []byte("null"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := c.Load(ctx)
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
	if _, statErr := os.Stat(c.Path()); !os.IsNotExist(statErr) {
		t.Error("corrupted snapshot file still exists")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("expected error for unknown driver")
	}
}
