package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Report collects the findings of one source validation run.
//
// Messages are appended in emission order into three independent
// streams. Checks never read messages back; the streams are write-only
// until the caller flushes them to its log or API response.
type Report struct {
	RunID  string
	Source string

	Good     []string
	Warnings []string
	Errors   []string
}

// NewReport returns an empty report for the given source identifier
// (usually the file path).
func NewReport(source string) *Report {
	return &Report{
		RunID:  uuid.NewString(),
		Source: source,
	}
}

// Goodf records a positive finding.
func (r *Report) Goodf(format string, args ...any) {
	r.Good = append(r.Good, fmt.Sprintf(format, args...))
}

// Warnf records a non-fatal finding.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Errorf records a finding that marks the record invalid.
func (r *Report) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Invalid reports whether at least one error was recorded.
func (r *Report) Invalid() bool {
	return len(r.Errors) > 0
}
