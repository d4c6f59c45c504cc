package testutil

import (
	"context"
	"sync"
)

// RecordingLauncher captures every argument vector it is asked to launch
// instead of starting a process. Err, when set, is returned from each
// Launch call to exercise failure isolation.
type RecordingLauncher struct {
	mu    sync.Mutex
	Err   error
	calls [][]string
}

// Launch implements suite.Launcher.
func (l *RecordingLauncher) Launch(_ context.Context, args []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, append([]string(nil), args...))
	return l.Err
}

// Calls returns the captured argument vectors in launch order.
func (l *RecordingLauncher) Calls() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]string, len(l.calls))
	copy(out, l.calls)
	return out
}
