package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"peano/interpreter-go/pkg/interpreter"
	"peano/interpreter-go/pkg/parser"
)

// Library is a resolved importable definition library on disk.
type Library struct {
	Name  string
	Root  string
	Entry string
}

// CacheCheckoutDir returns where a fetched dependency version lives under
// the cache directory.
func CacheCheckoutDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "pkg", "src", sanitizeSegment(name), SanitizePathSegment(version))
}

// LocateLibrary resolves a dependency to its on-disk root: path overrides
// live relative to the manifest root, git sources under the cache checkout
// recorded in the lockfile.
func LocateLibrary(name string, spec *DependencySpec, manifestRoot, cacheDir string, lock *Lockfile) (*Library, error) {
	if spec == nil {
		return nil, fmt.Errorf("dependency %q has no descriptor", name)
	}
	var root string
	switch {
	case spec.Path != "":
		root = spec.Path
		if !filepath.IsAbs(root) {
			root = filepath.Join(manifestRoot, filepath.FromSlash(root))
		}
	case spec.Git != "":
		pkg, ok := lock.Find(name)
		if !ok {
			return nil, fmt.Errorf("dependency %q is not locked; run `peano deps install`", name)
		}
		root = CacheCheckoutDir(cacheDir, name, pkg.Version)
	default:
		return nil, fmt.Errorf("dependency %q: unsupported descriptor", name)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: stat %s: %w", name, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, root)
	}

	entry := filepath.Join(root, DefaultEntry)
	manifestPath := filepath.Join(root, "package.yml")
	if _, err := os.Stat(manifestPath); err == nil {
		libManifest, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		entry = libManifest.EntryPath()
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return &Library{Name: sanitizeSegment(name), Root: root, Entry: entry}, nil
}

// LoadLibraries parses every dependency's entry file and registers its
// definitions with the interpreter under the dependency name, so programs
// can `import math` and call `math.double`.
func LoadLibraries(interp *interpreter.Interpreter, manifest *Manifest, lock *Lockfile, cacheDir string) error {
	if manifest == nil || len(manifest.Dependencies) == 0 {
		return nil
	}
	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lib, err := LocateLibrary(name, manifest.Dependencies[name], manifest.Root(), cacheDir, lock)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(lib.Entry)
		if err != nil {
			return fmt.Errorf("library %s: read %s: %w", lib.Name, lib.Entry, err)
		}
		prog, err := parser.ParseProgram(string(data))
		if err != nil {
			return fmt.Errorf("library %s: %w", lib.Name, err)
		}
		if len(prog.Imports) > 0 {
			return fmt.Errorf("library %s: libraries must not import other libraries", lib.Name)
		}
		if err := interp.LoadLibrary(lib.Name, prog); err != nil {
			return fmt.Errorf("library %s: %w", lib.Name, err)
		}
	}
	return nil
}

// SanitizePathSegment maps an arbitrary version or ref descriptor onto a
// safe directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "head"
	}
	return result
}
