//go:build !windows

package inject

// NewSink returns a no-op Sink on platforms without a low-level input
// injection primitive wired up. Hook installation and SendInput are
// Windows-only, while the scroll engine and classifiers are
// platform-independent; this exists only to keep the module buildable
// for development and unit testing off Windows.
func NewSink() Sink { return stubSink{} }

type stubSink struct{}

func (stubSink) InjectBatch(items []Item) error { return nil }
