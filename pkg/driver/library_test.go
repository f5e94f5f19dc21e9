package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/interpreter"
	"peano/interpreter-go/pkg/runtime"
)

const mathLibrary = `
fn double(n) decreasing n {
  match n {
    Zero => Zero,
    Succ(k) => Succ(Succ(double(k))),
  }
}
`

func TestLocateLibraryPathDependency(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "libs", "math")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, DefaultEntry), []byte(mathLibrary), 0o644))

	spec := &DependencySpec{Path: filepath.Join("libs", "math")}
	lib, err := LocateLibrary("math", spec, root, "", nil)
	require.NoError(t, err)
	require.Equal(t, libDir, lib.Root)
	require.Equal(t, filepath.Join(libDir, DefaultEntry), lib.Entry)
}

func TestLocateLibraryHonorsLibraryManifestEntry(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "math")
	require.NoError(t, os.MkdirAll(filepath.Join(libDir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "package.yml"), []byte("name: math\nentry: src/lib.pn\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "src", "lib.pn"), []byte(mathLibrary), 0o644))

	lib, err := LocateLibrary("math", &DependencySpec{Path: "math"}, root, "", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(libDir, "src", "lib.pn"), lib.Entry)
}

func TestLocateLibraryGitRequiresLockEntry(t *testing.T) {
	spec := &DependencySpec{Git: "https://example.com/math.git", Tag: "v1"}
	_, err := LocateLibrary("math", spec, t.TempDir(), t.TempDir(), NewLockfile("demo", "peano"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not locked")
}

func TestLoadLibrariesRegistersQualifiedNames(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "math")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, DefaultEntry), []byte(mathLibrary), 0o644))
	writeManifest(t, root, `
name: demo
dependencies:
  math:
    path: math
`)

	manifest, err := LoadManifest(filepath.Join(root, "package.yml"))
	require.NoError(t, err)

	interp := interpreter.New()
	require.NoError(t, LoadLibraries(interp, manifest, nil, ""))

	prog := ast.Prog(nil, ast.Call("math.double", ast.Nat(3)), ast.Import("math"))
	val, err := interp.EvaluateProgram(prog)
	require.NoError(t, err)
	n, ok := runtime.AsNat(val)
	require.True(t, ok)
	require.Equal(t, uint64(6), n)
}

func TestLoadLibrariesRejectsNestedImports(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "math")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, DefaultEntry), []byte("import other\n"), 0o644))
	writeManifest(t, root, `
name: demo
dependencies:
  math:
    path: math
`)

	manifest, err := LoadManifest(filepath.Join(root, "package.yml"))
	require.NoError(t, err)
	err = LoadLibraries(interpreter.New(), manifest, nil, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not import")
}

func TestSanitizePathSegment(t *testing.T) {
	require.Equal(t, "v1.0.0", SanitizePathSegment("v1.0.0"))
	require.Equal(t, "main_abc123", SanitizePathSegment("main@abc123"))
	require.Equal(t, "head", SanitizePathSegment("  "))
}
