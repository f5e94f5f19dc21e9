package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.lock")

	lock := NewLockfile("demo", "peano 0.1.0")
	lock.Packages = []*LockedPackage{
		{Name: "peano-math", Version: "v1.0.0", Source: "git+https://example.com/peano-math.git@abc123", Checksum: "deadbeef"},
		{Name: "arith", Version: "v0.2.0", Source: "path:/tmp/arith", Checksum: ""},
	}
	require.NoError(t, WriteLockfile(lock, path))

	loaded, err := LoadLockfile(path)
	require.NoError(t, err)
	require.Equal(t, "demo", loaded.Root)
	require.Equal(t, "peano 0.1.0", loaded.Tool)
	require.NotEmpty(t, loaded.Generated)

	// Entries come back sorted and with names sanitized.
	require.Len(t, loaded.Packages, 2)
	require.Equal(t, "arith", loaded.Packages[0].Name)
	require.Equal(t, "peano_math", loaded.Packages[1].Name)
	require.Equal(t, "deadbeef", loaded.Packages[1].Checksum)
}

func TestLockfileFind(t *testing.T) {
	lock := NewLockfile("demo", "peano 0.1.0")
	lock.Packages = []*LockedPackage{{Name: "math", Version: "v1.0.0"}}
	lock.normalize()

	pkg, ok := lock.Find("math")
	require.True(t, ok)
	require.Equal(t, "v1.0.0", pkg.Version)

	_, ok = lock.Find("missing")
	require.False(t, ok)
}

func TestLoadLockfileMissing(t *testing.T) {
	_, err := LoadLockfile(filepath.Join(t.TempDir(), "package.lock"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteLockfileRequiresPath(t *testing.T) {
	require.Error(t, WriteLockfile(&Lockfile{}, ""))
	require.Error(t, WriteLockfile(nil, "x"))
}
