package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func snapshot(ids ...string) models.Snapshot {
	items := make([]models.Track, len(ids))
	for i, id := range ids {
		items[i] = models.Track{ID: id, Title: "Title " + id, OwnerLabel: "Owner", ThumbnailURL: "https://img/" + id}
	}
	return models.Snapshot{Items: items, FetchedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)}
}

func TestSnapshotRepository(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		record, err := repo.Save("PL1", snapshot("a", "b"))
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		if record.ID() == "" {
			t.Error("snapshot ID should be set after save")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}
	})

	t.Run("Latest", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		if _, err := repo.Save("PL1", snapshot("a")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if _, err := repo.Save("PL1", snapshot("b", "c")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if _, err := repo.Save("PL2", snapshot("z")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		latest, err := repo.Latest("PL1")
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}

		snap := latest.Snapshot()
		if len(snap.Items) != 2 || snap.Items[0].ID != "b" || snap.Items[1].ID != "c" {
			t.Errorf("unexpected items %v", snap.Items)
		}
		if snap.Items[0].ThumbnailURL != "https://img/b" {
			t.Errorf("expected track fields to round trip, got %+v", snap.Items[0])
		}
		if !snap.FetchedAt.Equal(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)) {
			t.Errorf("unexpected fetchedAt %v", snap.FetchedAt)
		}
		if latest.PlaylistID() != "PL1" {
			t.Errorf("expected PL1, got %s", latest.PlaylistID())
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		for _, id := range []string{"a", "b", "c"} {
			if _, err := repo.Save("PL1", snapshot(id)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}

		all, err := repo.List("PL1", 0)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(all) != 3 || all[0].Snapshot().Items[0].ID != "c" {
			t.Errorf("expected newest first, got %d records", len(all))
		}

		limited, err := repo.List("PL1", 2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 records, got %d", len(limited))
		}
	})

	t.Run("Prune", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		for _, id := range []string{"a", "b", "c", "d"} {
			if _, err := repo.Save("PL1", snapshot(id)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}
		if _, err := repo.Save("PL2", snapshot("z")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		removed, err := repo.Prune("PL1", 2)
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if removed != 2 {
			t.Errorf("expected 2 removed, got %d", removed)
		}

		remaining, _ := repo.List("PL1", 0)
		if len(remaining) != 2 || remaining[1].Snapshot().Items[0].ID != "c" {
			t.Errorf("unexpected remaining snapshots")
		}
		if other, _ := repo.List("PL2", 0); len(other) != 1 {
			t.Error("prune touched another playlist")
		}
	})
}

func TestSnapshotRepositoryErrors(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSnapshotRepository(db)
			if _, err := repo.Save("", snapshot("a")); err == nil {
				t.Fatal("expected validation error for empty playlist id")
			}
			if _, err := repo.Save("PL1", snapshot("a", "a")); !errors.Is(err, models.ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot for duplicate ids, got %v", err)
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewSnapshotRepository(db).Save("PL1", snapshot("a")); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Latest", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewSnapshotRepository(db).Latest("missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("CorruptItems", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			now := time.Now().UTC()
			_, err := db.Exec(`INSERT INTO snapshots (id, sequence, playlist_id, items, fetched_at, created_at, updated_at)
				VALUES ('x', 1, 'PL1', '{broken', ?, ?, ?)`, now, now, now)
			if err != nil {
				t.Fatalf("failed to insert: %v", err)
			}

			if _, err := NewSnapshotRepository(db).Latest("PL1"); err == nil {
				t.Fatal("expected decode error")
			}
		})
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "snapshots")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}

	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "snapshots")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}

	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}
