// Package profile provides optional runtime profiling for hbind.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	hbind --pprof-mode cpu render page.hbs --data data.yaml
//	go tool pprof -http=: "$XDG_CACHE_HOME/hbind/pprof/cpu.pprof"
//
// Without the tag, [Profiler.Start] always returns a no-op and [Modes] is
// empty. With the tag, the HTTP handlers of [net/http/pprof] are also
// registered on the default mux.
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
