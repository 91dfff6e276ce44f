package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/lang"
	"github.com/ardnew/lis/log"
)

type (
	kongKey        struct{}
	sourceFilesKey struct{}
	optionsKey     struct{}
	streamsKey     struct{}
)

// WithContext attaches the parsed command line to ctx for commands that need
// kong variables or the full application model.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongKey{}).(*kong.Context)

	return ktx
}

// kongVar looks up the interpolation variable id of the parsed command line.
func kongVar(ctx context.Context, id string) (string, bool) {
	if ktx := kongContextFrom(ctx); ktx != nil {
		v, ok := ktx.Model.Vars()[id]

		return v, ok
	}

	return "", false
}

// SourceFiles reads the concatenation of every source file given with
// --source. Each file is followed by a newline so the last token of one
// file never joins the first token of the next.
type SourceFiles interface {
	IsZero() bool
	Stdin() io.Reader
	io.Reader
	io.WriterTo
	io.Closer
}

// sourceFiles opens its files on the first read, so commands that never
// read their sources hold no descriptors.
type sourceFiles struct {
	paths []string
	stdin io.Reader // nil unless standard input was named

	once   sync.Once
	mu     sync.Mutex
	files  []*os.File
	read   io.Reader
	closed bool
}

type streams struct {
	in  io.Reader
	out io.Writer
}

func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && s.stdin == nil }

// Stdin returns the input stream when it was named as a source. It is read
// after every file and is never closed.
func (s *sourceFiles) Stdin() io.Reader { return s.stdin }

func (s *sourceFiles) Read(p []byte) (int, error) {
	r, err := s.reader()
	if err != nil {
		return 0, err
	}

	return r.Read(p)
}

func (s *sourceFiles) WriteTo(w io.Writer) (int64, error) {
	r, err := s.reader()
	if err != nil {
		return 0, err
	}

	return io.Copy(w, r)
}

func (s *sourceFiles) reader() (io.Reader, error) {
	s.once.Do(s.open)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, os.ErrClosed
	}

	return s.read, nil
}

// open opens every path, skipping those that vanished since they were
// named, and chains them ahead of stdin.
func (s *sourceFiles) open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	var readers []io.Reader

	for _, path := range s.paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		s.files = append(s.files, f)
		readers = append(readers, f, strings.NewReader("\n"))
	}

	if s.stdin != nil {
		readers = append(readers, s.stdin)
	}

	s.read = io.MultiReader(readers...)
}

// Close closes the files opened so far and fails any later read.
func (s *sourceFiles) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	errs := make([]error, len(s.files))
	for i, f := range s.files {
		errs[i] = f.Close()
	}

	s.files = nil

	return errors.Join(errs...)
}

// stdinSource names standard input in a --source list.
const stdinSource = "-"

// WithSourceFiles attaches the [SourceFiles] named by sources to ctx.
//
// A file named more than once, whether through a symlink or a different
// path, is read only once. Standard input, given as "-" or by a path that
// refers to it, is read last; it is the input stream attached with
// [WithStreams]. Sources that do not exist are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{},
		buildSourceFiles(sources, streamsFrom(ctx).in))
}

func buildSourceFiles(sources []string, in io.Reader) SourceFiles {
	var (
		srcs  sourceFiles
		seen  []os.FileInfo
		stdin os.FileInfo
	)

	if f, ok := in.(*os.File); ok {
		stdin, _ = f.Stat()
	}

	for _, src := range sources {
		if src == stdinSource {
			srcs.stdin = in

			continue
		}

		info, err := os.Stat(src)
		if err != nil || slices.ContainsFunc(seen, sameFile(info)) {
			continue
		}

		if stdin != nil && os.SameFile(info, stdin) {
			srcs.stdin = in

			continue
		}

		seen = append(seen, info)
		srcs.paths = append(srcs.paths, src)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

func sameFile(info os.FileInfo) func(os.FileInfo) bool {
	return func(other os.FileInfo) bool { return os.SameFile(info, other) }
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// WithInterpreterOptions returns a new context.Context whose commands build
// their interpreter with opts.
func WithInterpreterOptions(
	ctx context.Context,
	opts ...lang.Option,
) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// newInterpreter returns a session configured from ctx. It logs through the
// package default logger unless the stored options say otherwise.
func newInterpreter(ctx context.Context, attrs ...slog.Attr) *lang.Interpreter {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return lang.New(
		append(
			[]lang.Option{lang.WithLogger(log.With(attrs...))},
			opts...,
		)...,
	)
}

// WithStreams returns a new context.Context whose commands read standard
// input from in and write results to out. Nil values select os.Stdin and
// os.Stdout.
func WithStreams(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s
}

// openSource opens the named source, or the input stream for "-". The
// returned close function is always non-nil.
func openSource(ctx context.Context, name string) (io.Reader, func() error, error) {
	if name == "" || name == stdinSource {
		return streamsFrom(ctx).in, func() error { return nil }, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, nil, ErrOpenSource.
			With(slog.String("file", name)).
			Wrap(err)
	}

	return file, file.Close, nil
}
