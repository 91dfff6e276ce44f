package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/lis/log"
)

// globalRegistry stores parsed programs keyed by source hash.
var globalRegistry sync.Map

// state tracks the parse of one source.
type state struct {
	once sync.Once
	prog Program
	err  error
}

// ParseReader reads all of r and parses every expression in it.
// Parsed programs are cached by content, so reading the same source again
// returns the shared, immutable result of the first parse.
//
// Only [WithLogger] affects ParseReader; other options are ignored.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Program, error) {
	var cfg Interpreter

	for _, opt := range opts {
		opt(&cfg)
	}

	// Wrap reader with async read-ahead so I/O overlaps with hashing.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseCached(ctx, cfg.logger, string(data))
}

// parseCached parses source at most once per distinct content.
func parseCached(
	ctx context.Context,
	logger log.Logger,
	source string,
) (Program, error) {
	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	value, cacheHit := globalRegistry.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		prog, err := ParseAll(source)
		if err != nil {
			entry.err = WrapError(err).With(
				slog.Int("source_length", len(source)),
			)

			return
		}

		entry.prog = prog
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.prog, nil
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalRegistry.Clear()
}
