package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/xtcheck/internal/suite"
)

// Terminal renders a report as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

var titler = cases.Title(language.English)

// Render formats the full report for terminal display.
func (t *Terminal) Render(rep *suite.Report) string {
	var sb strings.Builder

	header := titler.String(rep.Command) + " output checks"
	sb.WriteString(t.theme.Bold.Render(header))
	sb.WriteString("\n")

	maxName := 0
	for _, r := range rep.Results {
		if w := runewidth.StringWidth(r.Case.Label()); w > maxName {
			maxName = w
		}
	}
	if maxName > 60 {
		maxName = 60
	}

	for _, r := range rep.Results {
		sb.WriteString("  ")
		icon, style := t.statusIconStyle(r.Status)
		sb.WriteString(style.Render(icon))
		sb.WriteString(" ")
		name := runewidth.Truncate(r.Case.Label(), maxName, "...")
		sb.WriteString(t.theme.Primary.Render(padRight(name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(r.Duration.Round(durationGrain(rep)).String()))
		if r.Detail != "" {
			sb.WriteString("\n      ")
			sb.WriteString(style.Render(r.Detail))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(t.Summary(rep))
	sb.WriteString("\n")
	return sb.String()
}

// Summary renders the one-line totals footer. The live progress view uses
// it alone, having already printed per-case lines as they finished.
func (t *Terminal) Summary(rep *suite.Report) string {
	failures := rep.FailureCount()
	total := len(rep.Results)
	elapsed := rep.FinishedAt.Sub(rep.StartedAt).Round(durationGrain(rep))
	if failures == 0 {
		return t.theme.Success.Render(
			fmt.Sprintf("%s %d/%d matched (%s, %s)", t.theme.Icons.Pass, total, total, rep.Hash, elapsed))
	}
	return t.theme.Error.Render(
		fmt.Sprintf("%s %d of %d failed (%s, %s)", t.theme.Icons.Fail, failures, total, rep.Hash, elapsed))
}

func (t *Terminal) statusIconStyle(s suite.Status) (string, lipgloss.Style) {
	if s == suite.StatusPass {
		return t.theme.Icons.Pass, t.theme.Success
	}
	return t.theme.Icons.Fail, t.theme.Error
}

// durationGrain picks a rounding granularity so fast local runs don't
// render as a wall of zeros.
func durationGrain(rep *suite.Report) time.Duration {
	if rep.FinishedAt.Sub(rep.StartedAt) < time.Second {
		return time.Millisecond
	}
	return 10 * time.Millisecond
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
