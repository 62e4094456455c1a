package profile

// Tag names the build tag that enables profiling and the default output
// subdirectory.
const Tag = "pprof"

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported mode disables
	// profiling.
	Mode string
	// Dir is the output directory. Empty means the working directory.
	Dir string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling as configured. It never fails: a profiler that
// cannot run returns a no-op [Stopper].
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled {
		return nop{}
	}

	return start(p)
}

// Supported reports whether mode names a profiling mode in this build.
func Supported(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type nop struct{}

func (nop) Stop() {}
