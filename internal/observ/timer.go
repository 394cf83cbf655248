// Package observ carries the compiler's lightweight instrumentation: named
// phase timings collected during a run and printed on request.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Timer accumulates named phase durations. It is safe for concurrent use,
// phases from parallel module builds add up per name.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]time.Duration
}

func NewTimer() *Timer {
	return &Timer{phases: make(map[string]time.Duration)}
}

// Phase starts a phase and returns its stop function.
func (t *Timer) Phase(name string) func() {
	start := time.Now()
	return func() { t.add(name, time.Since(start)) }
}

func (t *Timer) add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.phases[name]; !seen {
		t.order = append(t.order, name)
	}
	t.phases[name] += d
}

// Total returns the sum of all recorded phases.
func (t *Timer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, d := range t.phases {
		total += d
	}
	return total
}

// Write prints one line per phase, in first-seen order, plus a total.
func (t *Timer) Write(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, name := range t.order {
		d := t.phases[name]
		total += d
		fmt.Fprintf(w, "%-12s %s\n", name, d.Round(time.Microsecond))
	}
	fmt.Fprintf(w, "%-12s %s\n", "total", total.Round(time.Microsecond))
}
