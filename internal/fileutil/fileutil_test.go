package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"arxivepub/internal/fileutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Paper", "My Paper"},
		{"  padded  ", "padded"},
		{"a/b\\c:d", "a-b-c-d"},
		{"what?\"<>|", "what"},
		{"line\nbreak", "line break"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := fileutil.SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanNonEPUBDeletesIntermediates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"report.epub", "scratch.xml", "main.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}

	if err := fileutil.CleanNonEPUB(dir, nil); err != nil {
		t.Fatalf("CleanNonEPUB returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "report.epub")); err != nil {
		t.Fatalf("expected epub preserved: %v", err)
	}
	for _, name := range []string{"scratch.xml", "main.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s deleted, got err=%v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); err != nil {
		t.Fatalf("expected subdirectory untouched: %v", err)
	}
}

func TestCleanNonEPUBMissingDirIsNotAnError(t *testing.T) {
	if err := fileutil.CleanNonEPUB(filepath.Join(t.TempDir(), "absent"), nil); err != nil {
		t.Fatalf("expected nil for missing dir, got %v", err)
	}
}
