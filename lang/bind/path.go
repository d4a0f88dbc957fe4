package bind

import (
	"log/slog"
	"strings"

	"github.com/ardnew/hbind/log"
)

const (
	// ScopeSeparator splits a path into scope steps.
	ScopeSeparator = "/"

	// MemberSeparator splits a scope step into chained member accesses.
	MemberSeparator = "."

	// VariableMarker prefixes a special-variable lookup such as "@index".
	VariableMarker = "@"

	parentStep = ".."
	thisStep   = "this"
)

// Resolver resolves path expressions against a binding [Context].
//
// A path is a sequence of scope steps separated by "/". Each step is one of:
//
//   - ".." leaves the last member step of this path, or, when there is none,
//     moves to the enclosing context
//   - "this" stays on the current value
//   - a chain of members separated by ".", each of which is a
//     special variable ("@index") of the current context or a member of the
//     current value read with the [Accessor]
//
// Resolution stops at the first member that resolves to [Undefined].
type Resolver struct {
	accessor *Accessor
	logger   log.Logger
}

// NewResolver returns a Resolver configured by cfg. A nil cfg uses defaults.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = NewConfig()
	}

	return &Resolver{
		accessor: NewAccessor(cfg.NameResolver),
		logger:   cfg.Logger,
	}
}

//nolint:gochecknoglobals
var defaultResolver = NewResolver(nil)

// ResolvePath resolves path against ctx with the default configuration.
func ResolvePath(ctx *Context, path string) (any, error) {
	return defaultResolver.Resolve(ctx, path)
}

// Resolve returns the value path refers to from ctx, or [Undefined] if any
// member along the way is missing. It returns a [*CompilerError] if the path
// navigates above the root context.
func (r *Resolver) Resolve(ctx *Context, path string) (any, error) {
	if ctx == nil {
		return nil, ErrNilContext.With(slog.String("path", path))
	}

	var (
		scope    = ctx
		instance = ctx.Value()
		// values left by each member step, so ".." can back out of them
		trail []any
	)

	for step := range strings.SplitSeq(path, ScopeSeparator) {
		switch step {
		case parentStep:
			if n := len(trail); n > 0 {
				instance, trail = trail[n-1], trail[:n-1]

				continue
			}

			if scope.Parent() == nil {
				err := &CompilerError{
					Path:  path,
					Depth: ctx.Depth(),
					err:   ErrParentOfRoot,
				}

				r.logger.Debug("path resolution failed", slog.Any("error", err))

				return nil, err
			}

			scope = scope.Parent()
			instance = scope.Value()

		case thisStep:
			continue

		default:
			trail = append(trail, instance)

			for member := range strings.SplitSeq(step, MemberSeparator) {
				instance = r.member(scope, instance, member)
				if IsUndefined(instance) {
					return Undefined, nil
				}
			}
		}
	}

	return instance, nil
}

// member resolves one member of a scope step.
func (r *Resolver) member(scope *Context, instance any, member string) any {
	if member == thisStep {
		return instance
	}

	if name, ok := strings.CutPrefix(member, VariableMarker); ok {
		v, found := scope.Variable(name)
		if !found {
			return Undefined
		}

		return v
	}

	return r.accessor.Access(instance, member)
}

// Accessor returns the member accessor used by r.
func (r *Resolver) Accessor() *Accessor { return r.accessor }
