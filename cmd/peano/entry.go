package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/driver"
	"peano/interpreter-go/pkg/interpreter"
	"peano/interpreter-go/pkg/parser"
)

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	manifest, code := loadNearbyManifest(len(args) == 0)
	if code != 0 {
		return code
	}

	var entry string
	if len(args) == 1 {
		entry = args[0]
	} else {
		if manifest == nil {
			fmt.Fprintln(os.Stderr, "peano run requires a source file (package.yml not found)")
			return 1
		}
		entry = manifest.EntryPath()
	}

	interp, code := prepareInterpreter(manifest)
	if code != 0 {
		return code
	}
	prog, code := parseSourceFile(entry)
	if code != 0 {
		return code
	}

	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, interpreter.FormatValue(val))
	return 0
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "peano check requires exactly one source file")
		return 1
	}

	manifest, code := loadNearbyManifest(false)
	if code != 0 {
		return code
	}
	interp, code := prepareInterpreter(manifest)
	if code != 0 {
		return code
	}
	prog, code := parseSourceFile(args[0])
	if code != 0 {
		return code
	}

	if err := interp.CheckProgram(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "ok: %s\n", args[0])
	return 0
}

// loadNearbyManifest looks upward from the working directory. A missing
// manifest is fatal only when the invocation depends on one.
func loadNearbyManifest(required bool) (*driver.Manifest, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		if driver.IsManifestNotFound(err) && !required {
			return nil, 0
		}
		fmt.Fprintf(os.Stderr, "unable to locate package.yml: %v\n", err)
		return nil, 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, 1
	}
	return manifest, 0
}

// prepareInterpreter builds an interpreter with the manifest's libraries
// loaded, so programs can import and call qualified definitions.
func prepareInterpreter(manifest *driver.Manifest) (*interpreter.Interpreter, int) {
	interp := interpreter.New()
	if manifest == nil || len(manifest.Dependencies) == 0 {
		return interp, 0
	}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, 1
	}
	cacheDir, err := resolvePeanoHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve PEANO_HOME: %v\n", err)
		return nil, 1
	}
	if err := driver.LoadLibraries(interp, manifest, lock, cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, 1
	}
	return interp, 0
}

func parseSourceFile(path string) (prog *ast.Program, code int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return nil, 1
	}
	prog, err = parser.ParseProgram(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return nil, 1
	}
	return prog, 0
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	needsLock := false
	for _, spec := range manifest.Dependencies {
		if spec != nil && spec.Git != "" {
			needsLock = true
		}
	}

	lockPath := filepath.Join(manifest.Root(), "package.lock")
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if needsLock {
				return nil, fmt.Errorf("package.lock missing for %q; run `peano deps install`", manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func resolvePeanoHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("PEANO_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve PEANO_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".peano"), nil
}
