// Package live shows suite progress on a TTY while cases run: a spinner
// footer with running counts, and one persistent line per finished case.
//
// The view is purely presentational. Results are identical whether or not
// it is active; piped output never goes through this package.
package live

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/xtcheck/internal/render"
	"github.com/dkoosis/xtcheck/internal/runner"
	"github.com/dkoosis/xtcheck/internal/suite"
)

type resultMsg suite.Result

type doneMsg struct {
	report *suite.Report
}

type model struct {
	spin   spinner.Model
	theme  render.Theme
	total  int
	passed int
	failed int
	report *suite.Report
}

func newModel(theme render.Theme, total int) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Primary
	return model{spin: sp, theme: theme, total: total}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		res := suite.Result(msg)
		if res.Failed() {
			m.failed++
		} else {
			m.passed++
		}
		return m, tea.Println(m.caseLine(res))
	case doneMsg:
		m.report = msg.report
		return m, tea.Quit
	case tea.KeyMsg:
		// Cases keep running; interruption is handled by the caller's
		// signal context, not the keyboard.
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.report != nil {
		return ""
	}
	done := m.passed + m.failed
	status := fmt.Sprintf("%s checking %d/%d", m.spin.View(), done+1, m.total)
	if m.failed > 0 {
		status += "  " + m.theme.Error.Render(fmt.Sprintf("%d failing", m.failed))
	}
	return status + "\n"
}

func (m model) caseLine(res suite.Result) string {
	icon := m.theme.Success.Render(m.theme.Icons.Pass)
	if res.Failed() {
		icon = m.theme.Error.Render(m.theme.Icons.Fail)
	}
	line := fmt.Sprintf("%s %s", icon, res.Case.Label())
	if res.Detail != "" {
		line += "  " + m.theme.Muted.Render(res.Detail)
	}
	return line
}

// Run executes the suite with a live progress view and returns the report.
// The suite run is owned by a single goroutine here: even when the display
// fails, Run waits for that goroutine and hands back its report, so a
// caller can never end up executing the suite a second time.
func Run(ctx context.Context, r *runner.Runner, s *suite.Suite, theme render.Theme) (*suite.Report, error) {
	p := tea.NewProgram(newModel(theme, len(s.Cases)), tea.WithContext(ctx))

	reports := make(chan *suite.Report, 1)
	go func() {
		rep := r.RunSuite(ctx, s, func(res suite.Result) {
			// Send is a no-op once the program has exited.
			p.Send(resultMsg(res))
		})
		reports <- rep
		p.Send(doneMsg{report: rep})
	}()

	_, err := p.Run()
	rep := <-reports
	if err != nil {
		return rep, fmt.Errorf("progress view: %w", err)
	}
	return rep, nil
}
