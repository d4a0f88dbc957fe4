package pkg

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

	if v := Version(); !semver.MatchString(v) {
		t.Errorf("expected semantic version, got %q", v)
	}
}

func TestIdentity(t *testing.T) {
	if Name != "hbind" {
		t.Errorf("expected Name %q, got %q", "hbind", Name)
	}

	if Description == "" {
		t.Error("expected a description")
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestUserDir(t *testing.T) {
	got := userDir(func() (string, error) { return "/base", nil }, ".x")
	if want := filepath.Join("/base", Prefix()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	t.Setenv("HOME", "/home/u")

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".x")
	if want := filepath.Join("/home/u", ".x", Prefix()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfigPath(t *testing.T) {
	if p := ConfigPath(); !strings.HasSuffix(p, ConfigFile) {
		t.Errorf("expected config path to end with %q, got %q", ConfigFile, p)
	}

	if Prefix() == "" || strings.HasPrefix(Prefix(), ".") {
		t.Errorf("unexpected prefix %q", Prefix())
	}
}
