package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/tui/styles"
)

// NowPlaying displays the track the endpoint last reported.
type NowPlaying struct {
	Track   *core.TrackSummary
	Playing bool
	Loading bool
}

// NewNowPlaying creates an empty NowPlaying.
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel.
func (n *NowPlaying) Render(width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if n.Track == nil {
		content = styles.Muted.Render("Nothing loaded")
	} else {
		content = n.renderTrack(width - 4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(width int) string {
	t := n.Track
	icon := styles.StatusIcon(n.Playing)
	if n.Loading {
		icon = styles.Dim.Render("…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+styles.Title.Render(styles.Truncate(t.Name, width-2)),
		"  "+styles.Subtitle.Render(styles.Truncate(t.Artists, width-2)),
		"  "+styles.Dim.Render(styles.Truncate(t.Album, width-2)),
		"",
		styles.Dim.Render(styles.Truncate(t.CoverURL, width)),
		"",
		n.renderControls(),
	)
}

func (n *NowPlaying) renderControls() string {
	controls := styles.Dim.Render("⏮ ")
	if n.Playing {
		controls += styles.Playing.Render("⏸")
	} else {
		controls += styles.Paused.Render("▶")
	}
	controls += styles.Dim.Render(" ⏭")

	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Render(controls)
}
