package profile

import "slices"

// Profiler selects a profiling mode and where to write its output.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start starts profiling and returns a handle to stop it. It returns a
// no-op handle when Mode is empty or unknown, or when built without the
// pprof tag. Both Start and Stop are always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Supported reports whether mode can be profiled by this build.
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

type ignore struct{}

func (ignore) Stop() {}
