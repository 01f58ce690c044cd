package testutil

import (
	"strings"
	"sync"

	"github.com/arthur-debert/homesick/pkg/types"
)

// ReportedLine is one status line
type ReportedLine struct {
	Status  types.Status
	Message string
}

// RecordingReporter captures status lines
type RecordingReporter struct {
	mu    sync.Mutex
	lines []ReportedLine
}

// Say implements types.Reporter
func (r *RecordingReporter) Say(status types.Status, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, ReportedLine{Status: status, Message: message})
}

// Lines returns a copy of the captured lines
func (r *RecordingReporter) Lines() []ReportedLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReportedLine(nil), r.lines...)
}

// Statuses returns the captured statuses in order
func (r *RecordingReporter) Statuses() []types.Status {
	lines := r.Lines()
	out := make([]types.Status, len(lines))
	for i, l := range lines {
		out[i] = l.Status
	}
	return out
}

// Has reports whether a line with status contains substr
func (r *RecordingReporter) Has(status types.Status, substr string) bool {
	for _, l := range r.Lines() {
		if l.Status == status && strings.Contains(l.Message, substr) {
			return true
		}
	}
	return false
}

var _ types.Reporter = (*RecordingReporter)(nil)
