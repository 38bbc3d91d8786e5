package coordinator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qfs"
)

// fakeFS is an in-memory FileSystem for deterministic finalize tests,
// tracking every delete/rename/mkdir call rather than touching disk.
type fakeFS struct {
	mu      sync.Mutex
	files   map[string]bool // path -> exists
	deleted []string
	renamed map[string]string
	created []string

	// dirEntries and missingDirs let tests control ListDir's result per
	// directory; an unconfigured directory lists as empty, matching the
	// common case where no test cares about its contents.
	dirEntries  map[string][]qfs.FileInfo
	missingDirs map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:       map[string]bool{},
		renamed:     map[string]string{},
		dirEntries:  map[string][]qfs.FileInfo{},
		missingDirs: map[string]bool{},
	}
}

type fakeNotFound struct{}

func (fakeNotFound) Error() string  { return "not found" }
func (fakeNotFound) NotFound() bool { return true }

func (f *fakeFS) ListDir(ctx context.Context, dir string) ([]qfs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missingDirs[dir] {
		return nil, fakeNotFound{}
	}
	return f.dirEntries[dir], nil
}

func (f *fakeFS) CreateDirectory(ctx context.Context, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, dir)
	return nil
}

func (f *fakeFS) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.files[path] {
		return fakeNotFound{}
	}
	delete(f.files, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFS) Rename(ctx context.Context, oldPath, newPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.files[oldPath] {
		return fakeNotFound{}
	}
	delete(f.files, oldPath)
	f.renamed[oldPath] = newPath
	return nil
}

var _ qfs.FileSystem = (*fakeFS)(nil)

func TestFinalizeQueryOverwriteInsertUnpartitioned(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments: []plan.Fragment{{Partition: plan.Unpartitioned}},
		FinalizeParams: &plan.FinalizeParams{
			BaseDir:     "/table/base",
			IsOverwrite: true,
		},
	}
	fs := newFakeFS()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	c.fs = fs

	c.appendedRows = map[string]int64{"": 42}
	c.pendingMoves = map[string]string{"/table/base/.tmp/f1": "/table/base/f1"}
	fs.files["/table/base/.tmp/f1"] = true

	assert.NoError(c.finalizeQuery(context.Background()))
	assert.Equal("/table/base/f1", fs.renamed["/table/base/.tmp/f1"])
	assert.Contains(fs.created, "/table/base")
}

func TestFinalizeQueryToleratesAlreadyMovedFile(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments:      []plan.Fragment{{Partition: plan.Unpartitioned}},
		FinalizeParams: &plan.FinalizeParams{BaseDir: "/table/base"},
	}
	fs := newFakeFS()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	c.fs = fs

	// the tmp file is already gone, as if a prior partial finalize moved it.
	c.pendingMoves = map[string]string{"/table/base/.tmp/f1": "/table/base/f1"}

	assert.NoError(c.finalizeQuery(context.Background()))
}

func TestFinalizeQueryDeletesEmptyFinalMoves(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments:      []plan.Fragment{{Partition: plan.Unpartitioned}},
		FinalizeParams: &plan.FinalizeParams{BaseDir: "/table/base"},
	}
	fs := newFakeFS()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	c.fs = fs
	fs.files["/table/base/.tmp/empty"] = true

	c.pendingMoves = map[string]string{"/table/base/.tmp/empty": ""}

	assert.NoError(c.finalizeQuery(context.Background()))
	assert.Contains(fs.deleted, "/table/base/.tmp/empty")
}

func TestCleanOverwriteDirDeletesFilesOnlyPreservesSubdirs(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments: []plan.Fragment{{Partition: plan.Unpartitioned}},
		FinalizeParams: &plan.FinalizeParams{
			BaseDir:     "/table/base",
			IsOverwrite: true,
		},
	}
	fs := newFakeFS()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	c.fs = fs

	fs.files["/table/base/a"] = true
	fs.files["/table/base/b"] = true
	fs.dirEntries["/table/base"] = []qfs.FileInfo{
		{Name: "a"},
		{Name: "b"},
		{Name: "sub", IsDir: true},
	}

	assert.NoError(c.finalizeQuery(context.Background()))
	assert.ElementsMatch([]string{"/table/base/a", "/table/base/b"}, fs.deleted)
}

func TestCleanOverwriteDirFailsLoudlyOnMissingBaseDir(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments: []plan.Fragment{{Partition: plan.Unpartitioned}},
		FinalizeParams: &plan.FinalizeParams{
			BaseDir:     "/table/base",
			IsOverwrite: true,
		},
	}
	fs := newFakeFS()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	c.fs = fs

	fs.missingDirs["/table/base"] = true

	assert.Error(c.finalizeQuery(context.Background()))
}
