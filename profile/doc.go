// Package profile starts optional runtime profiling using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] returns a no-op stopper.
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/cohort"}
//	defer p.Start().Stop()
package profile
