package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/xtcheck/internal/suite"
)

// LLM renders a report as terse plain text optimized for AI consumption.
// Zero ANSI codes, stable ordering, one line per case.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats the report for LLM consumption.
func (l *LLM) Render(rep *suite.Report) string {
	var sb strings.Builder

	failures := rep.FailureCount()
	scope := "PASS"
	if failures > 0 {
		scope = "FAIL"
	}
	fmt.Fprintf(&sb, "SCOPE: %s %d/%d cases matched (%s, command %s)\n",
		scope, rep.PassCount(), len(rep.Results), rep.Hash, rep.Command)

	for _, r := range rep.Results {
		switch r.Status {
		case suite.StatusPass:
			fmt.Fprintf(&sb, "PASS %s\n", r.Case.Label())
		case suite.StatusFail:
			fmt.Fprintf(&sb, "FAIL %s expected=%s observed=%s\n",
				r.Case.Label(), r.Case.Digest, r.Observed)
		case suite.StatusError:
			fmt.Fprintf(&sb, "ERROR %s %s\n", r.Case.Label(), r.Detail)
		}
	}
	return sb.String()
}
