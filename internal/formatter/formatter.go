// package formatter provides functions to export a playlist snapshot to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format, in help-text order.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// Export is a playlist snapshot with the context needed to render links.
type Export struct {
	PlaylistID string
	WatchURL   string // prefix joined with a track id, e.g. https://www.youtube.com/watch?v=
	Snapshot   *models.Snapshot
}

// Link returns the watch URL for a track.
func (e Export) Link(t models.Track) string {
	return e.WatchURL + t.ID
}

func (e Export) tracks() []models.Track {
	if e.Snapshot == nil {
		return nil
	}
	return e.Snapshot.Items
}

// ExportToCSV converts an Export to CSV format with columns: ID, Title, Channel, URL, Thumbnail
func ExportToCSV(export Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "URL", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.tracks() {
		record := []string{
			track.ID,
			track.Title,
			track.OwnerLabel,
			export.Link(track),
			track.ThumbnailURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to a Markdown document with one linked entry per track
func ExportToMarkdown(export Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.PlaylistID)
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.tracks()))
	if export.Snapshot != nil && !export.Snapshot.FetchedAt.IsZero() {
		fmt.Fprintf(&buf, "**Fetched**: %s\n", export.Snapshot.FetchedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	buf.WriteString("\n## Tracks\n\n")
	for i, track := range export.tracks() {
		fmt.Fprintf(&buf, "%d. [%s](%s)", i+1, escapeMarkdown(track.Title), export.Link(track))
		if track.OwnerLabel != "" {
			fmt.Fprintf(&buf, " - %s", escapeMarkdown(track.OwnerLabel))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.PlaylistID)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.tracks()))

	for i, track := range export.tracks() {
		if track.OwnerLabel == "" {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, track.Title)
			continue
		}
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.OwnerLabel, track.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the snapshot in the playlist endpoint's wire format
func ExportToJSON(export Export) ([]byte, error) {
	snap := export.Snapshot
	if snap == nil {
		snap = &models.Snapshot{Items: []models.Track{}}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render converts an Export to the given format.
func Render(export Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatText:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Write renders an Export to w.
func Write(w io.Writer, export Export, format Format) error {
	data, err := Render(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExport writes an Export to a file and returns its path.
//
// Defaults to {playlist ID}_tracks.{ext} as the filename.
func WriteExport(export Export, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.%s", export.PlaylistID, format.Extension())
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
