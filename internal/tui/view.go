package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/trackmysleep/internal/report"
)

func (a *App) View() string {
	if a.screen == screenQuality {
		return a.renderQuality()
	}
	return a.renderTracker()
}

func (a *App) renderTracker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Track My Sleep Quality"))
	b.WriteString("\n")
	if t := a.state.Tonight; t != nil {
		fmt.Fprintf(&b, "Tracking since %s\n", t.Start.In(a.tz).Format(a.layout))
	} else {
		b.WriteString("Not tracking\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderButton("[s] Start", a.state.StartVisible),
		renderButton("[t] Stop", a.state.StopVisible),
		renderButton("[c] Clear", a.state.ClearVisible),
	))
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	if a.snackbar != "" {
		b.WriteString(snackStyle.Render(a.snackbar))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(a.renderStatus())
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(trackerKeys{a.keys}))
	return b.String()
}

func (a *App) renderStatus() string {
	switch {
	case strings.HasSuffix(a.status, "..."):
		return statusStyle.Render(a.status)
	case a.failed:
		return statusErrStyle.Render(a.status)
	default:
		return statusOKStyle.Render(a.status)
	}
}

func renderButton(label string, enabled bool) string {
	if enabled {
		return enabledStyle.Render(label)
	}
	return disabledStyle.Render(label)
}

func (a *App) renderQuality() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("How was your sleep?"))
	b.WriteString("\n")
	n := a.rating
	fmt.Fprintf(&b, "Night #%d: %s, slept %s\n\n", n.ID, n.Start.In(a.tz).Format(a.layout), report.FormatDuration(n.Duration()))
	for q, label := range report.QualityLabels() {
		item := fmt.Sprintf("%d %s", q, label)
		if q == a.qCursor {
			b.WriteString(cursorStyle.Render("▶ " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(a.renderStatus())
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(qualityKeys{a.keys}))
	return b.String()
}
