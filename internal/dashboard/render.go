// Package dashboard is the presentation process: it keeps only the newest
// telemetry batch and renders the tracked vessel.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rspctl/rsp/internal/domain"
)

// Tracked returns the id to display: the batch's focus when present in
// the batch, otherwise the lowest id. It returns "" for an empty batch.
func Tracked(batch domain.Batch) string {
	if _, ok := batch.Entities[batch.Focus]; ok && batch.Focus != "" {
		return batch.Focus
	}
	ids := make([]string, 0, len(batch.Entities))
	for id := range batch.Entities {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

// Renderer draws one frame per batch.
type Renderer struct {
	theme theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{theme: newTheme()}
}

// Render draws batch as seen at now.
func (r *Renderer) Render(batch domain.Batch, now time.Time) string {
	t := r.theme
	id := Tracked(batch)
	if id == "" {
		return t.frame.Render(t.empty.Render("waiting for vessels..."))
	}

	mode := batch.Mode
	if mode == "" {
		mode = domain.ModeSurface
	}
	rd := batch.Entities[id]

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, t.label.Render(label), t.value.Render(value))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.title.Render("Mission Control - "+rd.Name),
		t.sub.Render(fmt.Sprintf("ID: %s | Mode: %s", id, modeLabel(mode))),
		"",
		row("Altitude", fmt.Sprintf("%.2f m", rd.Alt)),
		row("Speed", fmt.Sprintf("%.2f m/s", rd.Spd)),
		row("G-force", fmt.Sprintf("%.2f G", rd.G)),
		row("Air density", fmt.Sprintf("%.4f kg/m3", rd.Rho)),
		"",
		t.foot.Render(fmt.Sprintf("Vessels: %d | Refreshed: %s", len(batch.Entities), now.Format("15:04:05"))),
	)
	return t.frame.Render(body)
}

func modeLabel(mode string) string {
	switch mode {
	case domain.ModeOrbit:
		return "ORBIT"
	case domain.ModeSurface:
		return "SURFACE"
	default:
		return mode
	}
}
