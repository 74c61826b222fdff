// Package sessiontest provides a recording session.Driver for tests.
package sessiontest

import (
	"sync"

	"github.com/dmitriyb/canoerun/internal/session"
)

// Operation names recorded by Recorder, in the vocabulary of the external
// automation surface.
const (
	OpOpen    = "open"
	OpLoad    = "load"
	OpStart   = "start"
	OpStop    = "stop"
	OpClose   = "close"
	OpRunning = "running"
)

var (
	_ session.Driver         = (*Recorder)(nil)
	_ session.StatusReporter = (*Recorder)(nil)
)

// Recorder records every driver call in order. Failures can be injected per
// operation through Fail.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	loaded []string

	// Fail maps an operation name to the error it returns.
	Fail map[string]error
	// RunningPolls is the number of Running calls that report true before
	// the measurement is reported finished.
	RunningPolls int
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{Fail: map[string]error{}}
}

func (r *Recorder) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	return r.Fail[op]
}

// Calls returns a copy of the recorded operations, Running polls excluded.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		if c != OpRunning {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times op was invoked.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Loaded returns the configuration paths passed to OpenConfiguration.
func (r *Recorder) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.loaded...)
}

func (r *Recorder) Open() error { return r.record(OpOpen) }

func (r *Recorder) OpenConfiguration(path string) error {
	r.mu.Lock()
	r.loaded = append(r.loaded, path)
	r.mu.Unlock()
	return r.record(OpLoad)
}

func (r *Recorder) StartMeasurement() error { return r.record(OpStart) }

func (r *Recorder) StopMeasurement() error { return r.record(OpStop) }

func (r *Recorder) Quit() error { return r.record(OpClose) }

// Running reports true for the first RunningPolls calls.
func (r *Recorder) Running() (bool, error) {
	if err := r.record(OpRunning); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RunningPolls > 0 {
		r.RunningPolls--
		return true, nil
	}
	return false, nil
}
