package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"peano/interpreter-go/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "peano deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		return runDepsSync(false)
	case "update":
		return runDepsSync(true)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// runDepsSync resolves every manifest dependency into the cache and brings
// package.lock up to date. Update mode discards pinned entries first so
// branch dependencies re-resolve.
func runDepsSync(update bool) int {
	manifest, code := loadNearbyManifest(true)
	if code != 0 {
		return code
	}
	cacheDir, err := resolvePeanoHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve PEANO_HOME: %v\n", err)
		return 1
	}

	lockPath := filepath.Join(manifest.Root(), "package.lock")
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lock.Path = lockPath
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	if update {
		lock.Packages = nil
	}

	installer := newDependencyInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	lock.Path = lockPath
	lock.Tool = cliToolVersion

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s package.lock: %s\n", action, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "package.lock already up to date: %s\n", lock.Path)
	}
	return 0
}

type dependencyInstaller struct {
	manifest *driver.Manifest
	cacheDir string
	logs     []string
	git      *gitFetcher
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	return &dependencyInstaller{
		manifest: manifest,
		cacheDir: cacheDir,
		logs:     []string{},
		git:      newGitFetcher(cacheDir),
	}
}

// Install resolves every dependency, replaces lock.Packages with the fresh
// set, and reports whether anything changed.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if d.manifest == nil {
		return false, d.logs, nil
	}

	names := make([]string, 0, len(d.manifest.Dependencies))
	for name := range d.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	desired := make([]*driver.LockedPackage, 0, len(names))
	for _, name := range names {
		spec := d.manifest.Dependencies[name]
		pkg, err := d.resolveDependency(name, spec, lock)
		if err != nil {
			return false, d.logs, err
		}
		desired = append(desired, pkg)
	}

	existing := make(map[string]*driver.LockedPackage, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg != nil {
			existing[pkg.Name] = pkg
		}
	}
	changed := len(desired) != len(existing)
	for _, pkg := range desired {
		current, ok := existing[pkg.Name]
		if !ok || !lockedPackageEqual(current, pkg) {
			changed = true
		}
	}

	lock.Packages = desired
	return changed, d.logs, nil
}

func (d *dependencyInstaller) resolveDependency(name string, spec *driver.DependencySpec, lock *driver.Lockfile) (*driver.LockedPackage, error) {
	if spec == nil {
		return nil, fmt.Errorf("dependency %q has no descriptor", name)
	}
	if spec.Path != "" {
		return d.resolvePathDependency(name, spec)
	}
	if spec.Git != "" {
		// Pinned revisions already in the lock skip the network entirely.
		if existing, ok := lock.Find(name); ok && spec.Rev != "" && existing.Version == spec.Rev {
			if _, err := os.Stat(driver.CacheCheckoutDir(d.cacheDir, name, existing.Version)); err == nil {
				d.logs = append(d.logs, fmt.Sprintf("using cached %s (%s)", existing.Name, existing.Version))
				return existing, nil
			}
		}
		pkg, err := d.git.Fetch(name, spec)
		if err != nil {
			return nil, err
		}
		d.logs = append(d.logs, fmt.Sprintf("fetched %s (%s)", pkg.Name, pkg.Version))
		return pkg, nil
	}
	return nil, fmt.Errorf("dependency %q: unsupported descriptor", name)
}

func (d *dependencyInstaller) resolvePathDependency(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	pathSpec := spec.Path
	if !filepath.IsAbs(pathSpec) {
		pathSpec = filepath.Join(d.manifest.Root(), filepath.FromSlash(pathSpec))
	}
	abs, err := filepath.Abs(pathSpec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: resolve path %q: %w", name, spec.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: stat %s: %w", name, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, abs)
	}

	version := "0.0.0-dev"
	manifestPath := filepath.Join(abs, "package.yml")
	if _, statErr := os.Stat(manifestPath); statErr == nil {
		libManifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		if v := strings.TrimSpace(libManifest.Version); v != "" {
			version = v
		}
	}

	checksum, err := dirChecksum(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, abs, err)
	}

	d.logs = append(d.logs, fmt.Sprintf("linked %s %s (%s)", name, version, abs))
	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   fmt.Sprintf("path:%s", abs),
		Checksum: checksum,
	}, nil
}

func lockedPackageEqual(a, b *driver.LockedPackage) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Version == b.Version && a.Source == b.Source && a.Checksum == b.Checksum
}
