// Package profile provides optional runtime profiling for the lis
// interpreter.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Without the tag, [Modes] is empty and [Start] returns a no-op
// [Profiler], so the interpreter carries no profiling code at all.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Start(
//		profile.WithMode("cpu"),
//		profile.WithDir("/tmp/profiles"),
//	)
//	defer p.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (cpu.pprof, mem.pprof, ...).
//
// # Command-Line Usage
//
//	go build -tags pprof -o lis .
//
//	# Profile a deep recursion benchmark
//	./lis --pprof-mode cpu eval '(begin (define f (lambda (n) (if (<= n 1) 1 (* n (f (- n 1)))))) (f 150))'
//
//	# Analyze it
//	go tool pprof ./lis $XDG_CACHE_HOME/lis/pprof/cpu.pprof
//
// The default output directory is the pprof subdirectory of the lis cache
// directory ($XDG_CACHE_HOME/lis/pprof on Linux).
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
