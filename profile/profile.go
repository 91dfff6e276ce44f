package profile

// Profiler is a running profile. Stop flushes it to disk; calling Stop on a
// profiler that never started does nothing.
type Profiler interface{ Stop() }

type settings struct {
	mode  string
	dir   string
	quiet bool
}

// Option configures [Start].
type Option func(*settings)

// WithMode selects the profile to record, one of [Modes].
func WithMode(mode string) Option { return func(s *settings) { s.mode = mode } }

// WithDir sets the directory profiles are written to. The default is a
// temporary directory chosen by [github.com/pkg/profile].
func WithDir(dir string) Option { return func(s *settings) { s.dir = dir } }

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option { return func(s *settings) { s.quiet = quiet } }

// Start begins profiling. It returns a no-op Profiler when no mode is set,
// the mode is unknown, or the binary was built without the pprof tag.
func Start(opts ...Option) Profiler {
	var s settings

	for _, opt := range opts {
		opt(&s)
	}

	if s.mode == "" {
		return nop{}
	}

	return start(s)
}

type nop struct{}

func (nop) Stop() {}
