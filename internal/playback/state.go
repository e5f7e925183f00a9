package playback

import (
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
)

// PlaylistState holds the current snapshot, the selected index and the filtered view derived from both.
//
// activeIndex always refers to the unfiltered snapshot. The filtered view is recomputed on every snapshot or
// query change and never mutated in place.
type PlaylistState struct {
	tracks   []models.Track
	active   int
	query    string
	filtered []models.FilteredEntry
}

// NewPlaylistState returns an empty state.
func NewPlaylistState() *PlaylistState {
	return &PlaylistState{filtered: []models.FilteredEntry{}}
}

// Replace swaps in a new list of tracks.
//
// The selected index is kept unless it no longer fits, in which case it resets to 0.
func (s *PlaylistState) Replace(tracks []models.Track) {
	next := make([]models.Track, len(tracks))
	copy(next, tracks)

	s.tracks = next
	if s.active >= len(next) {
		s.active = 0
	}
	s.filtered = Filter(s.tracks, s.query)
}

// Select sets the active index. Out-of-range indices are rejected, not clamped.
func (s *PlaylistState) Select(index int) bool {
	if index < 0 || index >= len(s.tracks) {
		return false
	}
	s.active = index
	return true
}

// SetFilter changes the query. The active index is untouched even if the active track is filtered out.
func (s *PlaylistState) SetFilter(query string) {
	s.query = query
	s.filtered = Filter(s.tracks, query)
}

// Active returns the selected track, if the snapshot is non-empty.
func (s *PlaylistState) Active() (models.Track, bool) {
	if s.active < 0 || s.active >= len(s.tracks) {
		return models.Track{}, false
	}
	return s.tracks[s.active], true
}

func (s *PlaylistState) ActiveIndex() int                 { return s.active }
func (s *PlaylistState) Query() string                    { return s.query }
func (s *PlaylistState) Len() int                         { return len(s.tracks) }
func (s *PlaylistState) Tracks() []models.Track           { return s.tracks }
func (s *PlaylistState) Filtered() []models.FilteredEntry { return s.filtered }

// Filter returns the tracks whose title or owner label contains query, case-insensitively, in snapshot order.
//
// A blank query yields every track.
func Filter(tracks []models.Track, query string) []models.FilteredEntry {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.FilteredEntry, 0, len(tracks))
	for i, t := range tracks {
		if q != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.OwnerLabel), q) {
			continue
		}
		out = append(out, models.FilteredEntry{Track: t, Index: i})
	}
	return out
}
