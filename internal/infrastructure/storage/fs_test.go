package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svw.info/pairs/internal/domain"
)

func snapshot(id string, o domain.Outcome, created int64) *domain.Snapshot {
	return &domain.Snapshot{
		ID:        id,
		Stage:     2,
		AddsLeft:  4,
		Selected:  -1,
		Numbered:  2,
		Rows:      1,
		Tiles:     []domain.Tile{{Index: 0, Value: 3}, {Index: 1, Value: 7, Marker: domain.MarkerPink}},
		Missions:  []domain.Mission{{Kind: domain.MarkerPink, Target: 3, Remaining: 2}},
		Outcome:   o,
		CreatedAt: created,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFS(t.TempDir())
	in := snapshot("abc", domain.Playing, 10)
	if err := fs.Save(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, err := fs.Load(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveMovesBetweenBuckets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFS(dir)
	if err := fs.Save(ctx, snapshot("g", domain.Playing, 1)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(ctx, snapshot("g", domain.Won, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "playing", "g.json")); !os.IsNotExist(err) {
		t.Fatalf("expected playing copy removed, stat err=%v", err)
	}
	got, err := fs.Load(ctx, "g")
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != domain.Won {
		t.Fatalf("expected won, got %v", got.Outcome)
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFS(t.TempDir())
	if _, err := fs.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsPathIDs(t *testing.T) {
	fs := NewFS(t.TempDir())
	for _, id := range []string{"", "  ", "../x", `a\b`} {
		if err := fs.Save(context.Background(), snapshot(id, domain.Playing, 0)); err == nil {
			t.Fatalf("expected error for id %q", id)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFS(dir)
	for _, s := range []*domain.Snapshot{
		snapshot("old", domain.Lost, 1),
		snapshot("new", domain.Playing, 3),
		snapshot("mid", domain.Won, 2),
	} {
		if err := fs.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "playing", "junk.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := fs.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.SnapshotMeta{
		{ID: "new", Stage: 2, Outcome: domain.Playing, CreatedAt: 3},
		{ID: "mid", Stage: 2, Outcome: domain.Won, CreatedAt: 2},
		{ID: "old", Stage: 2, Outcome: domain.Lost, CreatedAt: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmptyDir(t *testing.T) {
	got, err := NewFS(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}
