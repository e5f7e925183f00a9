package models

import (
	"fmt"
	"time"
)

// PersistedSnapshot is a [Snapshot] stored for a single playlist id.
type PersistedSnapshot struct {
	id         string
	sequence   int
	playlistID string
	snapshot   Snapshot
	createdAt  time.Time
	updatedAt  time.Time
}

// NewPersistedSnapshot wraps snap for storage. The id is assigned by the repository.
func NewPersistedSnapshot(sequence int, playlistID string, snap Snapshot) *PersistedSnapshot {
	now := time.Now().UTC()
	return &PersistedSnapshot{
		sequence:   sequence,
		playlistID: playlistID,
		snapshot:   snap,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RestorePersistedSnapshot rebuilds a row read from the database.
func RestorePersistedSnapshot(id string, sequence int, playlistID string, snap Snapshot, createdAt, updatedAt time.Time) *PersistedSnapshot {
	return &PersistedSnapshot{
		id:         id,
		sequence:   sequence,
		playlistID: playlistID,
		snapshot:   snap,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (p *PersistedSnapshot) ID() string           { return p.id }
func (p *PersistedSnapshot) SetID(id string)      { p.id = id }
func (p *PersistedSnapshot) Sequence() int        { return p.sequence }
func (p *PersistedSnapshot) PlaylistID() string   { return p.playlistID }
func (p *PersistedSnapshot) Snapshot() Snapshot   { return p.snapshot }
func (p *PersistedSnapshot) CreatedAt() time.Time { return p.createdAt }
func (p *PersistedSnapshot) UpdatedAt() time.Time { return p.updatedAt }

// Validate requires an id, a playlist id and a valid snapshot.
func (p *PersistedSnapshot) Validate() error {
	if p.id == "" {
		return fmt.Errorf("%w: persisted snapshot has no id", ErrInvalidSnapshot)
	}
	if p.playlistID == "" {
		return fmt.Errorf("%w: persisted snapshot has no playlist id", ErrInvalidSnapshot)
	}
	return p.snapshot.Validate()
}
