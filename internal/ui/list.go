package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/jukebox/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.FilteredEntry] to implement [list.Item].
type trackItem struct {
	entry  models.FilteredEntry
	active bool
}

func (i trackItem) FilterValue() string { return i.entry.Track.Title }
func (i trackItem) Description() string { return i.entry.Track.OwnerLabel }
func (i trackItem) Title() string {
	if i.active {
		return styles.active.Render("▶ " + i.entry.Track.Title)
	}
	return i.entry.Track.Title
}

func trackItems(entries []models.FilteredEntry, active int) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = trackItem{entry: e, active: e.Index == active}
	}
	return items
}
