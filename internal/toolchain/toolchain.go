// Package toolchain describes, without itself performing more than
// shelling out, the two downstream tools spec.md §6 names as external
// collaborators: a C formatter and the system C compiler. Neither is
// part of this repository's core — the core's job ends at emitting
// main.c and the tapl_headers/ set; this package exists only so the
// `build` subcommand has somewhere to ask for the rest of the pipeline.
package toolchain

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Toolchain names the external binaries to invoke. The zero value uses
// the binaries spec.md §6 assumes: clang-format and cc.
type Toolchain struct {
	Formatter string
	Compiler  string
}

// Default returns a Toolchain naming the conventional binaries.
func Default() Toolchain {
	return Toolchain{Formatter: "clang-format", Compiler: "cc"}
}

func (tc Toolchain) formatter() string {
	if tc.Formatter != "" {
		return tc.Formatter
	}
	return "clang-format"
}

func (tc Toolchain) compiler() string {
	if tc.Compiler != "" {
		return tc.Compiler
	}
	return "cc"
}

// Format runs the configured formatter in-place over every generated
// file, per spec.md §6: "invoked per *.c/*.h file with a no-fallback
// style; failure aborts the overall build."
func (tc Toolchain) Format(paths []string) error {
	for _, path := range paths {
		cmd := exec.Command(tc.formatter(), "-i", "--fallback-style=none", path)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("error formatting %s: %s: %s", path, err.Error(), stderr.String())
		}
	}
	return nil
}

// GeneratedFiles lists the files Format should be run over, given the
// build directory Generate wrote into.
func GeneratedFiles(buildDir string) []string {
	headerDir := filepath.Join(buildDir, "tapl_headers")
	return []string{
		filepath.Join(buildDir, "main.c"),
		filepath.Join(headerDir, "types.h"),
		filepath.Join(headerDir, "classes.h"),
		filepath.Join(headerDir, "functions.h"),
	}
}

// Compile invokes the system C compiler against buildDir/main.c, per
// spec.md §6: "invoked with the build directory on the include path,
// -O0 -g3, output path <build>/main; failure aborts."
func (tc Toolchain) Compile(buildDir string) error {
	mainC := filepath.Join(buildDir, "main.c")
	out := filepath.Join(buildDir, "main")
	cmd := exec.Command(tc.compiler(), mainC, "-I", buildDir, "-O0", "-g3", "-o", out)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error compiling %s: %s: %s", mainC, err.Error(), stderr.String())
	}
	return nil
}

// Binary returns the path Compile wrote its output executable to.
func Binary(buildDir string) string {
	return filepath.Join(buildDir, "main")
}

// Run executes path, wiring its stdio to the current process's, and
// returns any error starting or waiting on it (including a non-zero
// exit, via *exec.ExitError).
func Run(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
