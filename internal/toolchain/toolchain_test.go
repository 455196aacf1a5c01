package toolchain

import (
	"path/filepath"
	"testing"
)

func TestDefaultNamesConventionalBinaries(t *testing.T) {
	tc := Default()
	if tc.formatter() != "clang-format" {
		t.Errorf("expected clang-format, got %q", tc.formatter())
	}
	if tc.compiler() != "cc" {
		t.Errorf("expected cc, got %q", tc.compiler())
	}
}

func TestGeneratedFilesListsAllFourPaths(t *testing.T) {
	files := GeneratedFiles("/build")
	want := []string{
		filepath.Join("/build", "main.c"),
		filepath.Join("/build", "tapl_headers", "types.h"),
		filepath.Join("/build", "tapl_headers", "classes.h"),
		filepath.Join("/build", "tapl_headers", "functions.h"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, path := range want {
		if files[i] != path {
			t.Errorf("files[%d] = %q, want %q", i, files[i], path)
		}
	}
}

func TestBinaryPath(t *testing.T) {
	if got := Binary("/build"); got != filepath.Join("/build", "main") {
		t.Errorf("Binary(/build) = %q", got)
	}
}

func TestFormatFailsOnMissingBinary(t *testing.T) {
	tc := Toolchain{Formatter: "tapl-nonexistent-formatter"}
	if err := tc.Format([]string{"/nonexistent/main.c"}); err == nil {
		t.Fatalf("expected an error invoking a nonexistent formatter")
	}
}

func TestCompileFailsOnMissingBinary(t *testing.T) {
	tc := Toolchain{Compiler: "tapl-nonexistent-cc"}
	if err := tc.Compile(t.TempDir()); err == nil {
		t.Fatalf("expected an error invoking a nonexistent compiler")
	}
}
