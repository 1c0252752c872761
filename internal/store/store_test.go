package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/handjoints/internal/joints"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"sessions", "settings"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}

	var idx string
	if err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
		"idx_sessions_started_at",
	).Scan(&idx); err != nil {
		t.Errorf("index should exist after migrations: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestSessionRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	t.Run("create and get", func(t *testing.T) {
		sess := &Session{
			ID:      "s-1",
			Group:   joints.GroupWristTriangle,
			Options: joints.DefaultOptions(),
		}
		if err := repo.Create(sess); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if sess.StartedAt.IsZero() {
			t.Error("Create() should set StartedAt")
		}

		got, err := repo.GetByID("s-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Group != joints.GroupWristTriangle {
			t.Errorf("Group = %v, want wrist", got.Group)
		}
		if got.Options != joints.DefaultOptions() {
			t.Errorf("Options = %+v, want defaults", got.Options)
		}
		if !got.Running() {
			t.Error("new session should be running")
		}
	})

	t.Run("finish records stats", func(t *testing.T) {
		stats := SessionStats{Frames: 120, HandFrames: 80, Failures: 3}
		if err := repo.Finish("s-1", stats, "stopped"); err != nil {
			t.Fatalf("Finish() error = %v", err)
		}

		got, err := repo.GetByID("s-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Running() {
			t.Error("finished session should not be running")
		}
		if got.Stats != stats {
			t.Errorf("Stats = %+v, want %+v", got.Stats, stats)
		}
		if got.StopReason != "stopped" {
			t.Errorf("StopReason = %q, want stopped", got.StopReason)
		}
	})

	t.Run("finish unknown session", func(t *testing.T) {
		if err := repo.Finish("missing", SessionStats{}, ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("Finish() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get unknown session", func(t *testing.T) {
		if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		base := time.Now().Add(time.Hour)
		for i, id := range []string{"s-2", "s-3"} {
			err := repo.Create(&Session{
				ID:        id,
				Group:     joints.GroupFingertips,
				Options:   joints.DefaultOptions(),
				StartedAt: base.Add(time.Duration(i) * time.Minute),
			})
			if err != nil {
				t.Fatalf("Create(%s) error = %v", id, err)
			}
		}

		all, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("len(List(0)) = %d, want 3", len(all))
		}
		if all[0].ID != "s-3" {
			t.Errorf("first session = %s, want s-3", all[0].ID)
		}

		limited, err := repo.List(1)
		if err != nil {
			t.Fatalf("List(1) error = %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("len(List(1)) = %d, want 1", len(limited))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete("s-2"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete("s-2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	t.Run("get missing key", func(t *testing.T) {
		if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		if err := repo.Set("ui.theme", "dark"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := repo.Set("ui.theme", "light"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, err := repo.Get("ui.theme")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if v != "light" {
			t.Errorf("Get() = %q, want light", v)
		}
	})

	t.Run("tracker settings default when unset", func(t *testing.T) {
		defaults := TrackerSettings{Group: joints.GroupWristTriangle, Options: joints.DefaultOptions()}
		got, err := repo.LoadTrackerSettings(defaults)
		if err != nil {
			t.Fatalf("LoadTrackerSettings() error = %v", err)
		}
		if got != defaults {
			t.Errorf("LoadTrackerSettings() = %+v, want %+v", got, defaults)
		}
	})

	t.Run("tracker settings round trip", func(t *testing.T) {
		want := TrackerSettings{
			Group:   joints.GroupFingertips,
			Options: joints.Options{ConfidenceCutoff: 0.45, Precision: 2},
		}
		if err := repo.SaveTrackerSettings(want); err != nil {
			t.Fatalf("SaveTrackerSettings() error = %v", err)
		}

		got, err := repo.LoadTrackerSettings(TrackerSettings{Options: joints.DefaultOptions()})
		if err != nil {
			t.Fatalf("LoadTrackerSettings() error = %v", err)
		}
		if got != want {
			t.Errorf("LoadTrackerSettings() = %+v, want %+v", got, want)
		}

		all, err := repo.All()
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if all[SettingGroup] != "2" {
			t.Errorf("stored group = %q, want 2", all[SettingGroup])
		}
	})

	t.Run("corrupt setting is reported", func(t *testing.T) {
		repo.Set(SettingPrecision, "three")
		if _, err := repo.LoadTrackerSettings(TrackerSettings{}); err == nil {
			t.Error("expected error for non-numeric precision")
		}
	})
}
