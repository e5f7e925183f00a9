// package models defines the data model for the playlist player
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Track is a single item of a playlist.
//
// JSON field names match the playlist endpoint's wire format.
type Track struct {
	ID           string `json:"videoId"`
	Title        string `json:"title"`
	OwnerLabel   string `json:"channel"`
	ThumbnailURL string `json:"thumb"`
}

// Validate reports whether the track can be played.
func (t Track) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: track %q has no id", ErrInvalidSnapshot, t.Title)
	}
	return nil
}

// Snapshot is an ordered playlist fetched in one piece.
//
// A snapshot is never mutated element-wise; a newer fetch replaces it wholesale.
// Indices are only meaningful against the snapshot that produced them.
type Snapshot struct {
	Items     []Track   `json:"items"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Validate checks that every track has an id and that ids are unique.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}

	seen := make(map[string]int, len(s.Items))
	for i, t := range s.Items {
		if err := t.Validate(); err != nil {
			return err
		}
		if prev, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: duplicate id %s at %d and %d", ErrInvalidSnapshot, t.ID, prev, i)
		}
		seen[t.ID] = i
	}
	return nil
}

// Len returns the number of tracks, treating a nil snapshot as empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// FilteredEntry pairs a track with its position in the unfiltered snapshot.
type FilteredEntry struct {
	Track Track
	Index int
}
