package render

import (
	"encoding/json"

	"github.com/dkoosis/xtcheck/internal/suite"
)

// JSON renders a report as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version  string        `json:"version"`
	Failures int           `json:"failures"`
	Report   *suite.Report `json:"report"`
}

// Render formats the report as JSON.
func (j *JSON) Render(rep *suite.Report) string {
	out := jsonOutput{
		Version:  "1.0",
		Failures: rep.FailureCount(),
		Report:   rep,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
