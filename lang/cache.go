package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/hbind/lang/ast"
)

// globalCache stores bound trees keyed by a hash of the source and the
// helper names it was parsed against.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// entry is a cached compilation. The first caller compiles; concurrent
// callers for the same key wait for it.
type entry struct {
	once   sync.Once
	source string
	tree   ast.Node
	err    error
}

// cacheKey identifies a compilation. Helper names take part because they
// decide whether a bare mustache parses as a helper call or a path.
func cacheKey(source string, o options) string {
	var names strings.Builder

	for name := range o.helpers.Names() {
		names.WriteString(name)
		names.WriteByte(0)
	}

	sum := xxh3.HashString(source) ^ (xxh3.HashString(names.String()) * 0x9e3779b97f4a7c15)

	return strconv.FormatUint(sum, 36) + ":" + strconv.Itoa(len(source))
}

func compileCached(ctx context.Context, source string, o options) (ast.Node, error) {
	key := cacheKey(source, o)

	value, hit := globalCache.LoadOrStore(key, &entry{source: source})

	e, ok := value.(*entry)
	if !ok {
		return compileTree(ctx, source, o)
	}

	// Keys are hashes, so a hit may belong to different source.
	if e.source != source {
		o.logger.DebugContext(ctx, "cache key collision", slog.String("key", key))

		return compileTree(ctx, source, o)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.tree, e.err = compileTree(ctx, source, o)
	})

	return e.tree, e.err
}

// CompileReader reads a template from r and compiles it. Input is read
// asynchronously ahead of the consumer.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Compile(ctx, string(data), opts...)
}

// ClearCache removes all cached compilations.
func ClearCache() {
	globalCache.Clear()
}
