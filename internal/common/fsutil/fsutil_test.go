package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cases := []struct{ in, want string }{
		{"/tmp", "/tmp"},
		{"", ""},
		{"~", home},
		{"~/cfg/a.yaml", filepath.Join(home, "cfg", "a.yaml")},
		{"~other/x", "~other/x"},
	}
	for _, c := range cases {
		got, err := ExpandHome(c.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ExpandHome(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFirstExisting(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	p := filepath.Join(home, "audioevents.toml")
	if err := os.WriteFile(p, []byte("addr=\":1\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if FileExists(home) {
		t.Fatalf("directory reported as file")
	}
	if !FileExists(p) {
		t.Fatalf("file not found: %s", p)
	}
	got := FirstExisting("", filepath.Join(home, "missing.yaml"), "~/audioevents.toml")
	if got != p {
		t.Fatalf("FirstExisting = %q, want %q", got, p)
	}
	if got := FirstExisting(filepath.Join(home, "nope")); got != "" {
		t.Fatalf("FirstExisting = %q, want empty", got)
	}
}
