package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Entry        string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a definition library comes from: a git
// source pinned by rev/tag/branch, or a local path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultEntry is the entry file assumed when a manifest omits one.
const DefaultEntry = "main.pn"

var errManifestNotFound = errors.New("package.yml not found")

// IsManifestNotFound reports whether err means no package.yml was found.
func IsManifestNotFound(err error) bool {
	return errors.Is(err, errManifestNotFound)
}

// FindManifest walks from start upwards until it finds a package.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, "package.yml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no package.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Root returns the directory holding the manifest.
func (m *Manifest) Root() string {
	return filepath.Dir(m.Path)
}

// EntryPath resolves the entry file against the manifest root.
func (m *Manifest) EntryPath() string {
	entry := m.Entry
	if entry == "" {
		entry = DefaultEntry
	}
	if filepath.IsAbs(entry) {
		return filepath.Clean(entry)
	}
	return filepath.Join(m.Root(), filepath.FromSlash(entry))
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for name, dep := range m.Dependencies {
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return []string{"missing descriptor"}
	}
	if d.Path != "" && d.Git != "" {
		errs = append(errs, "path overrides cannot also specify a git source")
	}
	if d.Path == "" && d.Git == "" {
		errs = append(errs, "must specify git or path")
	}
	if d.Git != "" && d.Rev == "" && d.Tag == "" && d.Branch == "" {
		errs = append(errs, "git sources require rev, tag, or branch")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "rev, tag, and branch are mutually exclusive")
	}
	return errs
}

type manifestFile struct {
	Name         string                   `yaml:"name"`
	Version      string                   `yaml:"version"`
	Entry        string                   `yaml:"entry"`
	Dependencies map[string]rawDependency `yaml:"dependencies"`
}

type rawDependency struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Entry:        strings.TrimSpace(mf.Entry),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for name, raw := range mf.Dependencies {
		name = sanitizeSegment(name)
		if name == "" {
			continue
		}
		result.Dependencies[name] = &DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
	}
	return result
}

// sanitizeSegment normalizes a package or dependency name so it can double
// as a directory segment and a qualification prefix.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
