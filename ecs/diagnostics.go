package ecs

import "fmt"

// DiagnosticEntry is one recoverable warning recorded during misuse that
// spec.md §7 classifies as non-fatal (duplicate registration, an unregistered
// component type, re-adding a tracked entity). The teacher repo has no
// logging library anywhere in its ECS-adjacent code (engine/core just grows
// an *EventBus and lets main.go call the standard log package); this keeps
// the same shape, as a pull-based sink instead of a push-based logger.
type DiagnosticEntry struct {
	Kind    DiagnosticKind
	Message string
}

func (d DiagnosticEntry) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// Diagnostics is a small ring buffer of recoverable warnings. It never
// blocks, never panics, and never grows unbounded: once full, the oldest
// entry is discarded to make room for the newest one.
type Diagnostics struct {
	entries []DiagnosticEntry
	cap     int
}

const defaultDiagnosticsCapacity = 64

func newDiagnostics() *Diagnostics {
	return &Diagnostics{cap: defaultDiagnosticsCapacity}
}

func (d *Diagnostics) warn(kind DiagnosticKind, format string, args ...any) {
	entry := DiagnosticEntry{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if len(d.entries) >= d.cap {
		d.entries = d.entries[1:]
	}
	d.entries = append(d.entries, entry)
}

// Entries returns the diagnostics recorded so far, oldest first.
func (d *Diagnostics) Entries() []DiagnosticEntry {
	out := make([]DiagnosticEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Clear discards all recorded diagnostics.
func (d *Diagnostics) Clear() {
	d.entries = d.entries[:0]
}
