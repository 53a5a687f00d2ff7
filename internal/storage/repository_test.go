package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "esa-reader.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_UIPreferencesDefaults(t *testing.T) {
	repo := newTestRepository(t)

	prefs, err := repo.LoadUIPreferences(context.Background())
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if prefs != DefaultUIPreferences() {
		t.Fatalf("expected defaults, got %+v", prefs)
	}
}

func TestRepository_SaveAndLoadUIPreferences(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := UIPreferences{RelativeTime: false, ShowHelpBar: false, SplitRatio: 0.6}
	if err := repo.SaveUIPreferences(ctx, want); err != nil {
		t.Fatalf("SaveUIPreferences returned error: %v", err)
	}
	got, err := repo.LoadUIPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected preferences: got %+v want %+v", got, want)
	}

	if err := repo.SaveUIPreferences(ctx, UIPreferences{RelativeTime: true, SplitRatio: 2}); err != nil {
		t.Fatalf("SaveUIPreferences returned error: %v", err)
	}
	got, err = repo.LoadUIPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if !got.RelativeTime || got.ShowHelpBar || got.SplitRatio != MaxSplitRatio {
		t.Fatalf("expected upsert with clamped ratio, got %+v", got)
	}
}

func TestRepository_LastViewPerWorkspace(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, ok, err := repo.LastView(ctx, "docs"); err != nil || ok {
		t.Fatalf("expected no last view, got ok=%v err=%v", ok, err)
	}
	if err := repo.SaveLastView(ctx, "docs", "Mine"); err != nil {
		t.Fatalf("SaveLastView returned error: %v", err)
	}
	if err := repo.SaveLastView(ctx, "other", "WIP"); err != nil {
		t.Fatalf("SaveLastView returned error: %v", err)
	}
	if err := repo.SaveLastView(ctx, "docs", "Recent"); err != nil {
		t.Fatalf("SaveLastView returned error: %v", err)
	}

	title, ok, err := repo.LastView(ctx, "docs")
	if err != nil || !ok || title != "Recent" {
		t.Fatalf("unexpected last view: %q ok=%v err=%v", title, ok, err)
	}
	title, _, _ = repo.LastView(ctx, "other")
	if title != "WIP" {
		t.Fatalf("expected per-workspace storage, got %q", title)
	}
}
