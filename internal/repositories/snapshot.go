package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// SnapshotRepository persists [models.PersistedSnapshot] rows.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save stores snap as the newest snapshot of playlistID.
func (r *SnapshotRepository) Save(playlistID string, snap models.Snapshot) (*models.PersistedSnapshot, error) {
	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	record := models.NewPersistedSnapshot(sequence, playlistID, snap)
	record.SetID(shared.GenerateID())

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items, err := json.Marshal(snap.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, sequence, playlist_id, items, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.PlaylistID(),
		string(items),
		snap.FetchedAt.UTC(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return record, nil
}

// Latest returns the newest snapshot of playlistID, or [ErrNotFound].
func (r *SnapshotRepository) Latest(playlistID string) (*models.PersistedSnapshot, error) {
	query := `
		SELECT id, sequence, playlist_id, items, fetched_at, created_at, updated_at
		FROM snapshots
		WHERE playlist_id = ?
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scan(r.db.QueryRow(query, playlistID))
}

// List returns up to limit snapshots of playlistID, newest first. A non-positive limit returns all of them.
func (r *SnapshotRepository) List(playlistID string, limit int) ([]*models.PersistedSnapshot, error) {
	query := `
		SELECT id, sequence, playlist_id, items, fetched_at, created_at, updated_at
		FROM snapshots
		WHERE playlist_id = ?
		ORDER BY sequence DESC
	`

	args := []any{playlistID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var records []*models.PersistedSnapshot
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Prune deletes all but the newest keep snapshots of playlistID and returns how many rows were removed.
func (r *SnapshotRepository) Prune(playlistID string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}

	query := `
		DELETE FROM snapshots
		WHERE playlist_id = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE playlist_id = ? ORDER BY sequence DESC LIMIT ?
		)
	`

	result, err := r.db.Exec(query, playlistID, playlistID, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SnapshotRepository) scan(row scanner) (*models.PersistedSnapshot, error) {
	var (
		id         string
		sequence   int
		playlistID string
		items      string
		fetchedAt  time.Time
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &sequence, &playlistID, &items, &fetchedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no snapshot stored", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap := models.Snapshot{Items: []models.Track{}, FetchedAt: fetchedAt}
	if err := json.Unmarshal([]byte(items), &snap.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of snapshot %s: %w", id, err)
	}

	return models.RestorePersistedSnapshot(id, sequence, playlistID, snap, createdAt, updatedAt), nil
}
