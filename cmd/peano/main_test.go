package main

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

const addProgram = `
fn add(n, m) decreasing n {
  match n {
    Zero => m,
    Succ(k) => Succ(add(k, m)),
  }
}

add(3, 4)
`

func TestVersionFlag(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Fatalf("--version returned exit code %d, want 0", code)
	}
}

func TestNoArgumentsShowsUsage(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("bare invocation returned exit code %d, want 1", code)
	}
}

func TestRunDirectFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.pn"), addProgram)

	if code := runEntry([]string{"main.pn"}); code != 0 {
		t.Fatalf("runEntry returned exit code %d, want 0", code)
	}
}

func TestRunManifestEntry(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "package.yml"), "name: demo\nentry: src/main.pn\n")
	writeFile(t, filepath.Join(dir, "src", "main.pn"), addProgram)

	if code := runEntry(nil); code != 0 {
		t.Fatalf("runEntry returned exit code %d, want 0", code)
	}
}

func TestRunReportsEvaluationError(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.pn"), "ghost\n")

	if code := runEntry([]string{"main.pn"}); code != 1 {
		t.Fatalf("unbound variable should exit 1, got %d", code)
	}
}

func TestCheckAcceptsValidDefinitions(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.pn"), addProgram)

	if code := runCheck([]string{"main.pn"}); code != 0 {
		t.Fatalf("runCheck returned exit code %d, want 0", code)
	}
}

func TestCheckRejectsUndecreasingRecursion(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.pn"), "fn loop(n) {\n  loop(n)\n}\n")

	if code := runCheck([]string{"main.pn"}); code != 1 {
		t.Fatalf("malformed definition should exit 1, got %d", code)
	}
}

func TestRunWithPathDependency(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "package.yml"), `
name: demo
dependencies:
  math:
    path: libs/math
`)
	writeFile(t, filepath.Join(dir, "libs", "math", "main.pn"), `
fn double(n) decreasing n {
  match n {
    Zero => Zero,
    Succ(k) => Succ(Succ(double(k))),
  }
}
`)
	writeFile(t, filepath.Join(dir, "main.pn"), "import math\n\nmath.double(3)\n")

	if code := runEntry([]string{"main.pn"}); code != 0 {
		t.Fatalf("runEntry returned exit code %d, want 0", code)
	}
}

func TestDepsInstallWritesLockfile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PEANO_HOME", filepath.Join(dir, ".peano"))
	writeFile(t, filepath.Join(dir, "package.yml"), `
name: demo
dependencies:
  math:
    path: libs/math
`)
	writeFile(t, filepath.Join(dir, "libs", "math", "main.pn"), "fn id(n) {\n  n\n}\n")

	if code := runDeps([]string{"install"}); code != 0 {
		t.Fatalf("deps install returned exit code %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "package.lock")); err != nil {
		t.Fatalf("package.lock not written: %v", err)
	}

	// A second install with nothing changed leaves the lock untouched.
	if code := runDeps([]string{"install"}); code != 0 {
		t.Fatalf("second deps install returned exit code %d, want 0", code)
	}
}

func TestDepsRejectsUnknownSubcommand(t *testing.T) {
	if code := runDeps([]string{"vendor"}); code != 1 {
		t.Fatalf("unknown subcommand should exit 1, got %d", code)
	}
}
