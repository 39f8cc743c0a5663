package solver

import "fmt"

const traceTruncated = "... trace truncated for brevity / performance"

// traceRecorder collects DP decisions in the order they are made.
// A nil recorder records nothing.
type traceRecorder struct {
	limit int
	lines []string
}

func newTraceRecorder(limit int) *traceRecorder {
	return &traceRecorder{limit: limit, lines: make([]string, 0, min(limit, 16))}
}

func (r *traceRecorder) addf(format string, args ...any) {
	if r == nil {
		return
	}
	switch {
	case len(r.lines) < r.limit:
		r.lines = append(r.lines, fmt.Sprintf(format, args...))
	case len(r.lines) == r.limit:
		r.lines = append(r.lines, traceTruncated)
	}
}

// snapshot returns a copy of the recorded lines.
func (r *traceRecorder) snapshot() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
