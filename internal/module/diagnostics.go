package module

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// DiagnosticSink is the single "diagnostic sink" collaborator assumed by
// spec.md §1/§6.4: a freeform warning-line receiver. Warnings are advisory
// and never block operation except when depwarn == error (handled by the
// caller, not the sink).
type DiagnosticSink interface {
	Warnf(format string, args ...any)
}

var warnColor = color.New(color.FgYellow).SprintFunc()

// StderrSink is the default DiagnosticSink, matching the color vocabulary
// internal/repl/repl.go already uses for warnings (yellow WARNING: lines).
type StderrSink struct {
	w io.Writer
}

// NewStderrSink creates a sink writing to os.Stderr.
func NewStderrSink() *StderrSink { return &StderrSink{w: os.Stderr} }

func (s *StderrSink) Warnf(format string, args ...any) {
	fmt.Fprintf(s.w, "%s %s\n", warnColor("WARNING:"), fmt.Sprintf(format, args...))
}

// MemorySink collects warnings in-process, used by tests that assert on the
// exact set/count of warnings emitted (e.g. boundary scenario 2's "the
// warning is emitted at most once").
type MemorySink struct {
	Messages []string
}

func (s *MemorySink) Warnf(format string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(format, args...))
}

// NopSink discards every warning.
type NopSink struct{}

func (NopSink) Warnf(string, ...any) {}
