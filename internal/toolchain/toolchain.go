// Package toolchain locates and invokes the host C++ compiler that links the
// emitted translation unit into a native executable.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// candidates are the compiler names probed on PATH, in preference order.
var candidates = []string{"g++", "clang++", "c++"}

// FindCompiler locates a usable C++ compiler. A non-empty override names the
// compiler to use instead of probing.
func FindCompiler(override string) (string, error) {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return "", fmt.Errorf("C++ compiler %q not found: %w", override, err)
		}
		return path, nil
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no C++ compiler found on PATH (tried %s)", strings.Join(candidates, ", "))
}

// Compile builds the translation unit at cppPath into an executable at
// exePath. Compiler stderr is passed through on failure.
func Compile(compiler, cppPath, exePath string, verbose bool) error {
	args := []string{"-std=c++17", "-O2", "-o", exePath, cppPath}
	cmd := exec.Command(compiler, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if verbose {
		fmt.Fprintf(os.Stderr, "tpc: %s %s\n", compiler, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("C++ compilation failed: %w", err)
	}
	return nil
}

// ExecutableName derives the default output path for an input source file,
// applying the platform's executable suffix.
func ExecutableName(inputPath string) string {
	base := strings.TrimSuffix(inputPath, ".pas")
	base = strings.TrimSuffix(base, ".PAS")
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
