package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one opened input.
type source struct {
	name string
	io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named file once, in order. Files reached through
// different paths or symlinks are opened only at their first occurrence.
// All occurrences of "-", and any path naming stdin itself, collapse into
// a single stdin source placed last so that it reads after regular files.
// The returned func closes every opened file.
func openSources(paths []string, stdin io.Reader) ([]source, func(), error) {
	srcs := make([]source, 0, len(paths))
	files := make([]*os.File, 0, len(paths))

	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	hasStdinKey := false

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	useStdin := false

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			closeAll()

			return nil, func() {}, ErrOpenData.Wrap(err)
		}

		if file == nil {
			continue
		}

		if hasStdinKey && key == stdinKey {
			_ = file.Close()
			useStdin = true

			continue
		}

		files = append(files, file)
		srcs = append(srcs, source{name: path, Reader: file})
	}

	if useStdin {
		srcs = append(srcs, source{name: stdinSource, Reader: stdin})
	}

	return srcs, closeAll, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate returns a nil file and nil error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
