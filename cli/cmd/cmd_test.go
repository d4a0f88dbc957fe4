package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// writeFiles creates each named file in a temporary directory and returns
// the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func readSources(t *testing.T, srcs []source) []string {
	t.Helper()

	var out []string

	for _, src := range srcs {
		data, err := io.ReadAll(src)
		if err != nil {
			t.Fatalf("reading %s: %v", src.name, err)
		}

		out = append(out, string(data))
	}

	return out
}

func TestOpenSourcesEmpty(t *testing.T) {
	srcs, closeAll, err := openSources(nil, strings.NewReader("stdin"))
	if err != nil {
		t.Fatalf("openSources failed: %v", err)
	}
	defer closeAll()

	if len(srcs) != 0 {
		t.Errorf("expected no sources, got %d", len(srcs))
	}
}

func TestOpenSourcesOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a": "first", "b": "second"})

	paths := []string{
		"-",
		filepath.Join(dir, "a"),
		"-",
		filepath.Join(dir, "b"),
	}

	srcs, closeAll, err := openSources(paths, strings.NewReader("stdin"))
	if err != nil {
		t.Fatalf("openSources failed: %v", err)
	}
	defer closeAll()

	got := readSources(t, srcs)
	want := []string{"first", "second", "stdin"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}

	if srcs[2].name != stdinSource {
		t.Errorf("expected stdin last, got %q", srcs[2].name)
	}
}

func TestOpenSourcesDuplicates(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a": "content"})

	file := filepath.Join(dir, "a")
	link := filepath.Join(dir, "link")

	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, file)
	if err != nil {
		t.Fatal(err)
	}

	srcs, closeAll, err := openSources([]string{file, link, rel, file}, nil)
	if err != nil {
		t.Fatalf("openSources failed: %v", err)
	}
	defer closeAll()

	if len(srcs) != 1 {
		t.Errorf("expected duplicates to be opened once, got %d sources", len(srcs))
	}
}

func TestOpenSourcesMissing(t *testing.T) {
	_, _, err := openSources([]string{filepath.Join(t.TempDir(), "nope")}, nil)
	if !errors.Is(err, ErrOpenData) {
		t.Errorf("expected ErrOpenData, got %v", err)
	}
}

func TestStdout(t *testing.T) {
	if w := stdout(context.Background()); w != os.Stdout {
		t.Error("expected os.Stdout without a kong context")
	}

	var buf bytes.Buffer

	var cli struct {
		Flag bool
	}

	parser, err := kong.New(&cli, kong.Writers(&buf, &buf))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if w := stdout(WithContext(context.Background(), ktx)); w != &buf {
		t.Error("expected the kong stdout writer")
	}
}
