package main

import (
	"context"
	"log/slog"
	"os"
	"runtime/pprof"
)

// ProfileKind selects what a [Profiler] records.
type ProfileKind int

const (
	// ProfileCPU records a CPU profile for the lifetime of the [Profiler].
	ProfileCPU ProfileKind = iota

	// ProfileAllocs writes the allocs profile when the [Profiler] stops.
	ProfileAllocs
)

func (k ProfileKind) String() string {
	if k == ProfileCPU {
		return "cpu"
	}

	return "allocs"
}

//nolint:containedctx
type Profiler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

// NewProfiler returns a pointer to a new [Profiler] writing to path. An empty
// path disables profiling, the [Profiler] then only needs to be stopped.
func NewProfiler(ctx context.Context, kind ProfileKind, path string) *Profiler {
	prof := &Profiler{}
	prof.ctx, prof.cancel = context.WithCancel(ctx)
	prof.doneChan = make(chan struct{})

	go prof.profile(kind, path)

	return prof
}

func (prof *Profiler) profile(kind ProfileKind, path string) {
	defer close(prof.doneChan)

	if path == "" {
		return
	}

	if kind == ProfileAllocs {
		<-prof.ctx.Done()
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("Could not create profile", "err", err, "kind", kind)

		return
	}
	defer f.Close()

	if kind == ProfileAllocs {
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			slog.Error("Could not write profile", "err", err, "kind", kind)
		}

		return
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		slog.Error("Could not start profile", "err", err, "kind", kind)

		return
	}
	defer pprof.StopCPUProfile()

	<-prof.ctx.Done()
}

// Stop ends profiling and waits until the profile is written.
func (prof *Profiler) Stop() {
	prof.cancel()
	<-prof.doneChan
}
