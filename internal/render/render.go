// Package render provides output renderers for suite run reports.
package render

import (
	"fmt"
	"io"

	"github.com/dkoosis/xtcheck/internal/suite"
)

// Renderer converts a run report to formatted output.
type Renderer interface {
	Render(rep *suite.Report) string
}

// Sink receives per-case failure diagnostics as the run progresses. It is
// separated from pass/fail logic so the console form can be swapped for
// structured logging.
type Sink interface {
	Emit(res suite.Result)
}

// consoleSink writes colored one-line diagnostics for failing cases.
type consoleSink struct {
	w     io.Writer
	theme Theme
}

// NewConsoleSink returns a Sink that writes failure diagnostics to w.
// Passing cases are silent.
func NewConsoleSink(w io.Writer, theme Theme) Sink {
	return &consoleSink{w: w, theme: theme}
}

func (s *consoleSink) Emit(res suite.Result) {
	switch res.Status {
	case suite.StatusFail:
		fmt.Fprintf(s.w, "%s %s: expected %s, got %s\n",
			s.theme.Error.Render(s.theme.Icons.Fail+" FAILED"),
			res.Case.Label(), res.Case.Digest, res.Observed)
	case suite.StatusError:
		fmt.Fprintf(s.w, "%s %s: %s\n",
			s.theme.Error.Render(s.theme.Icons.Fail+" ERROR"),
			res.Case.Label(), res.Detail)
	}
}
