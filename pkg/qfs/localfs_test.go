package qfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/qfs"
)

func TestLocalFSListDirAndDelete(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(dir, "a.dat"), []byte("x"), 0o644))
	assert.NoError(os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	fs := qfs.LocalFS{}
	entries, err := fs.ListDir(context.Background(), dir)
	assert.NoError(err)
	assert.Len(entries, 2)

	assert.NoError(fs.Delete(context.Background(), filepath.Join(dir, "a.dat")))
	_, err = os.Stat(filepath.Join(dir, "a.dat"))
	assert.True(os.IsNotExist(err))
}

func TestLocalFSListDirNotFound(t *testing.T) {
	assert := assert.New(t)
	fs := qfs.LocalFS{}
	_, err := fs.ListDir(context.Background(), "/no/such/dir/at/all")
	assert.Error(err)
	assert.True(qfs.IsNotFound(err))
}

func TestLocalFSRenameCreatesParent(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "tmp.dat")
	dst := filepath.Join(dir, "final", "out.dat")
	assert.NoError(os.WriteFile(src, []byte("x"), 0o644))

	fs := qfs.LocalFS{}
	assert.NoError(fs.Rename(context.Background(), src, dst))
	_, err := os.Stat(dst)
	assert.NoError(err)
}

func TestLocalFSRenameMissingSourceIsNotFound(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	fs := qfs.LocalFS{}
	err := fs.Rename(context.Background(), filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	assert.Error(err)
	assert.True(qfs.IsNotFound(err))
}
