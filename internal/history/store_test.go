package history_test

import (
	"context"
	"errors"
	"testing"

	"arxivepub/internal/history"
	"arxivepub/internal/services"
	"arxivepub/internal/testsupport"
)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, err := store.Add(ctx, "run-1", "2503.05613", "https://arxiv.org/abs/2503.05613")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if item.Status != history.StatusPending {
		t.Fatalf("status = %q, want pending", item.Status)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.PaperID != "2503.05613" || got.RunID != "run-1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, err := store.Add(ctx, "run-1", "2503.05613", "https://arxiv.org/abs/2503.05613")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	item.Title = "Attention Is All You Need"
	item.MainFile = "main.tex"
	item.OutputPath = "out/Attention Is All You Need.epub"
	item.Status = history.StatusCompleted
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != item.Title || got.Status != history.StatusCompleted || got.OutputPath != item.OutputPath {
		t.Fatalf("unexpected record after update: %+v", got)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), &history.Item{ID: 999, Status: history.StatusFailed})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.Add(ctx, "run-1", "1111.0001", "https://arxiv.org/abs/1111.0001")
	second, _ := store.Add(ctx, "run-2", "1111.0002", "https://arxiv.org/abs/1111.0002")

	first.Status = history.StatusFailed
	first.ErrorMessage = "latexml exited 1"
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	second.Status = history.StatusCompleted
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}

	failed, err := store.List(ctx, history.StatusFailed)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(failed) != 1 || failed[0].PaperID != "1111.0001" {
		t.Fatalf("unexpected failed list: %+v", failed)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
}

func TestStatsAndClearFinished(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	running, _ := store.Add(ctx, "run-1", "1111.0001", "https://arxiv.org/abs/1111.0001")
	done, _ := store.Add(ctx, "run-2", "1111.0002", "https://arxiv.org/abs/1111.0002")

	running.Status = history.StatusConverting
	if err := store.Update(ctx, running); err != nil {
		t.Fatalf("Update: %v", err)
	}
	done.Status = history.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus[history.StatusCompleted] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	removed, err := store.ClearFinished(ctx)
	if err != nil {
		t.Fatalf("ClearFinished: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Status != history.StatusConverting {
		t.Fatalf("unexpected remaining records: %+v", remaining)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, _ := store.Add(ctx, "run-1", "1111.0001", "https://arxiv.org/abs/1111.0001")
	if err := store.Remove(ctx, item.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, item.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := history.ParseStatus(" Failed "); !ok || status != history.StatusFailed {
		t.Fatalf("ParseStatus failed: %v %v", status, ok)
	}
	if _, ok := history.ParseStatus("bogus"); ok {
		t.Fatal("expected bogus status to be rejected")
	}
}
